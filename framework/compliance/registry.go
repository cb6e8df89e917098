package compliance

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Procedure is the body of a test. It performs its requests in sequence, recording results on the
// Runner, and the test is complete when it returns. It should stop early if ctx is cancelled,
// which happens when the test times out.
type Procedure func(ctx context.Context, r *Runner)

// TestCase is one registered test.
type TestCase struct {
	ID          string
	Title       string
	Description string
	DocLink     string
	suite       string
	procedure   Procedure
	status      atomic.Int32
}

// Status returns the lifecycle state of the test in the most recent run: StatusRegistered until
// a run reaches it, then StatusRunning, and finally StatusCompleted, StatusTimedOut or, if it was
// filtered out, StatusSkipped.
func (c *TestCase) Status() Status {
	return Status(c.status.Load())
}

func (c *TestCase) setStatus(s Status) {
	c.status.Store(int32(s))
}

// Name returns the identifier used for filtering: the suite name and the title.
func (c *TestCase) Name() TestID {
	return TestID{c.suite, c.Title}
}

// Registry holds the tests of one suite in registration order.
type Registry struct {
	suite string
	cases []*TestCase
}

// NewRegistry creates an empty Registry. The suite name is the first component of every test's
// name.
func NewRegistry(suite string) *Registry {
	return &Registry{suite: suite}
}

// Suite returns the suite name.
func (r *Registry) Suite() string {
	return r.suite
}

// Register adds a test. Tests are assigned the IDs "test0", "test1", and so on, in the order in
// which they are registered.
func (r *Registry) Register(title, description, docLink string, procedure Procedure) *TestCase {
	c := &TestCase{
		ID:          "test" + strconv.Itoa(len(r.cases)),
		Title:       title,
		Description: description,
		DocLink:     docLink,
		suite:       r.suite,
		procedure:   procedure,
	}
	r.cases = append(r.cases, c)
	return c
}

// Cases returns the registered tests in registration order.
func (r *Registry) Cases() []*TestCase {
	return append([]*TestCase(nil), r.cases...)
}

// Len returns the number of registered tests.
func (r *Registry) Len() int {
	return len(r.cases)
}
