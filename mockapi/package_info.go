// Package mockapi is an in-process GA4GH API server over a small canned dataset. It implements the
// search and get endpoints that the built-in suites call, so that the harness can be tested end to
// end and demonstrated without a real server.
package mockapi
