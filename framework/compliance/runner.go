package compliance

import (
	"fmt"
	"sync"

	"github.com/ga4gh/compliance-harness/framework"
	"github.com/ga4gh/compliance-harness/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// UnreachableMessage replaces the status code in the fatal error for a request that got no HTTP
// response at all.
const UnreachableMessage = "This backend isn't callable: it may be down, not listening on that address, " +
	"or (for browser clients) not support CORS. See http://enable-cors.org/server.html"

// AssertionResult is the outcome of one field-level check.
type AssertionResult struct {
	Message string
	Warning bool
}

// Runner is the per-test context. A test procedure records assertions, fatal errors and raw
// payloads on it; the scheduler reads them back after the procedure completes.
//
// All methods are safe for concurrent use. Once Complete has been called the Runner is sealed, and
// anything recorded afterward (for instance by a procedure that has timed out but is still
// running) is dropped.
type Runner struct {
	datasetID    string
	assertions   []AssertionResult
	fatalErrors  []string
	payloads     []ldvalue.Value
	debugLogger  framework.CapturingLogger
	sealed       bool
	done         chan struct{}
	completeOnce sync.Once
	lock         sync.Mutex
}

// NewRunner creates a Runner for one test case.
func NewRunner(datasetID string) *Runner {
	return &Runner{datasetID: datasetID, done: make(chan struct{})}
}

// DatasetID returns the dataset identifier that the test run is targeting.
func (r *Runner) DatasetID() string {
	return r.datasetID
}

// DebugLogger returns a Logger whose output is captured for this test, such as the HTTP traffic
// log. It is passed to TestLogger.TestFinished as part of the TestResult.
func (r *Runner) DebugLogger() framework.Logger {
	return &r.debugLogger
}

// Assert records one assertion, which is a warning if ok is false. It returns true if the
// assertion produced a warning.
func (r *Runner) Assert(ok bool, message string) bool {
	warning := !ok
	r.lock.Lock()
	if !r.sealed {
		r.assertions = append(r.assertions, AssertionResult{Message: message, Warning: warning})
	}
	r.lock.Unlock()
	return warning
}

// Fatal records an error that prevented the test from completing normally. A test with any fatal
// error scores zero.
func (r *Runner) Fatal(message string) {
	r.lock.Lock()
	if !r.sealed {
		r.fatalErrors = append(r.fatalErrors, message)
	}
	r.lock.Unlock()
}

// Fatalf is a formatting version of Fatal.
func (r *Runner) Fatalf(format string, args ...interface{}) {
	r.Fatal(fmt.Sprintf(format, args...))
}

// AddPayload records a raw response body for display by reporters.
func (r *Runner) AddPayload(payload ldvalue.Value) {
	r.lock.Lock()
	if !r.sealed {
		r.payloads = append(r.payloads, payload)
	}
	r.lock.Unlock()
}

// CheckHTTPError inspects a value returned by the transport. If it has a top-level "status"
// property, it is taken to describe a failed request, and a fatal error is recorded. The payload
// is always recorded. The return value is true if an error was recorded.
//
// A successful response whose top-level object happens to have a "status" property will also be
// treated as an error. A status that is loosely equal to zero, such as 0, "0", "" or false, means
// that no response was received at all.
func (r *Runner) CheckHTTPError(payload ldvalue.Value) bool {
	defer r.AddPayload(payload)

	status, isError := payloadStatus(payload)
	if !isError {
		return false
	}
	statusText := payload.GetByKey("statusText").StringValue()
	message := "Http error: " + statusText + " (" + status + ")"
	if detail := payload.GetByKey("message"); detail.IsString() && detail.StringValue() != "" {
		message += ": " + detail.StringValue()
		if code := payload.GetByKey("errorCode"); !code.IsNull() {
			message += " [errorCode " + code.JSONString() + "]"
		}
	}
	r.Fatal(message)
	return true
}

func payloadStatus(payload ldvalue.Value) (string, bool) {
	if payload.Type() != ldvalue.ObjectType {
		return "", false
	}
	status, ok := payload.TryGetByKey("status")
	if !ok {
		return "", false
	}
	switch {
	case helpers.LooselyZero(status):
		return UnreachableMessage, true
	case status.IsString():
		return status.StringValue(), true
	default:
		return status.JSONString(), true
	}
}

// Score returns the number of passing assertions and the total number of assertions. If there
// were any fatal errors, the score is zero.
func (r *Runner) Score() (score, total int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	total = len(r.assertions)
	if len(r.fatalErrors) != 0 {
		return 0, total
	}
	for _, a := range r.assertions {
		if !a.Warning {
			score++
		}
	}
	return score, total
}

// Complete signals that the test has finished. Only the first call has any effect.
func (r *Runner) Complete() {
	r.completeOnce.Do(func() {
		r.lock.Lock()
		r.sealed = true
		r.lock.Unlock()
		r.debugLogger.Seal()
		close(r.done)
	})
}

// Done returns a channel that is closed when Complete is called.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Assertions returns a copy of the assertions recorded so far, in order.
func (r *Runner) Assertions() []AssertionResult {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]AssertionResult(nil), r.assertions...)
}

// FatalErrors returns a copy of the fatal errors recorded so far, in order.
func (r *Runner) FatalErrors() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.fatalErrors...)
}

// Payloads returns a copy of the raw payloads recorded so far, in order.
func (r *Runner) Payloads() []ldvalue.Value {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]ldvalue.Value(nil), r.payloads...)
}
