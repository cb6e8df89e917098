// Package suites contains the built-in tests for each supported API version, and the adapter that
// turns user-defined tests from a suite file into registered test cases.
package suites
