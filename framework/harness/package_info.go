// Package harness contains the HTTP transport used by compliance tests to talk to the API under
// test.
//
// Requests never fail with a Go error. Every outcome, including a connection failure, is turned
// into a JSON value so that test procedures can hand it straight to Runner.CheckHTTPError.
package harness
