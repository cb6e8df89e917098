// Package compliance runs registered compliance tests against an API endpoint and scores them.
//
// A Registry holds an ordered list of TestCases. The Scheduler runs every case concurrently,
// each with its own Runner that collects assertions, fatal errors and raw payloads, and reports
// progress to a TestLogger. The aggregate result is reported exactly once, after every case has
// completed or timed out.
package compliance
