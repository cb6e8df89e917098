// Package framework contains the reusable infrastructure of the compliance harness. The base
// package contains shared types such as Logger; the other components are in subpackages:
//
// fields: the declarative field-expectation DSL and the assertions that apply it to JSON payloads.
//
// compliance: test runners, the test case registry, the concurrent scheduler, scoring, and
// result reporters.
//
// harness: the HTTP transport used to talk to the API under test.
//
// helpers: small utilities for working with JSON values.
//
// The general model is:
//
// 1. Test definitions register test cases in a Registry. Each test case has a procedure that
// issues one or more (possibly chained) requests against the API under test.
//
// 2. The Scheduler runs every registered procedure concurrently, each with its own Runner that
// accumulates assertion results, fatal transport errors, and raw response payloads.
//
// 3. When every test case has completed, the scheduler computes the aggregate score and hands
// the results to the configured reporters.
package framework
