package compliance

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the time limit for one test if RunConfig.Timeout is not set.
const DefaultTimeout = 60 * time.Second

// RunConfig contains options for an entire test run.
type RunConfig struct {
	// Filter is an optional filter for determining which tests to run based on their names.
	Filter Filter

	// TestLogger receives status information about each test, and the aggregate result.
	TestLogger TestLogger

	// DatasetID is passed to every test through Runner.DatasetID.
	DatasetID string

	// Endpoint is the base URL of the API under test. It is only used for reporting.
	Endpoint string

	// Timeout is the time limit for each test. Zero means DefaultTimeout.
	Timeout time.Duration

	// Parallelism limits the number of tests running at once. Zero means no limit.
	Parallelism int
}

type caseOutcome struct {
	index  int
	result TestResult
}

// Run executes every test in the registry that is accepted by the filter. Tests run concurrently
// and no ordering between them is guaranteed.
//
// All TestLogger calls are made from the calling goroutine: TestStarted or TestSkipped for each
// test in registration order, TestFinished for each test in completion order, and finally a single
// EndLog once every test has completed or timed out. The error, if any, is the one returned by
// EndLog.
func Run(ctx context.Context, registry *Registry, config RunConfig) (Results, error) {
	logger := config.TestLogger
	if logger == nil {
		logger = nullTestLogger{}
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	results := Results{
		RunID:     uuid.NewString(),
		Suite:     registry.Suite(),
		Endpoint:  config.Endpoint,
		DatasetID: config.DatasetID,
		StartTime: time.Now(),
	}

	var toRun []*TestCase
	for _, c := range registry.Cases() {
		if config.Filter != nil && !config.Filter.Match(c.Name()) {
			c.setStatus(StatusSkipped)
			logger.TestSkipped(c, "excluded by filter parameters")
			results.Skipped = append(results.Skipped, c.Name())
			continue
		}
		logger.TestStarted(c)
		toRun = append(toRun, c)
	}

	outcomes := make(chan caseOutcome, len(toRun))
	var g errgroup.Group
	if config.Parallelism > 0 {
		g.SetLimit(config.Parallelism)
	}
	// g.Go blocks while the limit is reached, so tests are launched from a separate goroutine
	// in order for this one to keep reporting completions.
	go func() {
		for i, c := range toRun {
			i, c := i, c
			g.Go(func() error {
				outcomes <- caseOutcome{index: i, result: runCase(ctx, c, config.DatasetID, timeout)}
				return nil
			})
		}
	}()

	finished := make([]TestResult, len(toRun))
	for range toRun {
		o := <-outcomes
		logger.TestFinished(o.result)
		finished[o.index] = o.result
	}
	_ = g.Wait()

	results.Tests = finished
	for _, r := range finished {
		results.Score += r.Score
		results.Total += r.Total
	}
	results.Duration = time.Since(results.StartTime)

	return results, logger.EndLog(results)
}

func runCase(ctx context.Context, c *TestCase, datasetID string, timeout time.Duration) TestResult {
	c.setStatus(StatusRunning)
	runner := NewRunner(datasetID)
	startTime := time.Now()

	caseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	procedureDone := make(chan struct{})
	go func() {
		defer close(procedureDone)
		defer func() {
			if r := recover(); r != nil {
				runner.Fatalf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
		}()
		c.procedure(caseCtx, runner)
	}()

	status := StatusCompleted
	select {
	case <-procedureDone:
	case <-caseCtx.Done():
		if ctx.Err() != nil {
			runner.Fatalf("Test was cancelled: %s", ctx.Err())
		} else {
			runner.Fatalf("Test did not complete within %s", timeout)
		}
		status = StatusTimedOut
	}
	runner.Complete()
	c.setStatus(status)

	score, total := runner.Score()
	return TestResult{
		ID:          c.ID,
		Name:        c.Name(),
		Title:       c.Title,
		Description: c.Description,
		DocLink:     c.DocLink,
		Status:      status,
		Assertions:  runner.Assertions(),
		FatalErrors: runner.FatalErrors(),
		Payloads:    runner.Payloads(),
		Score:       score,
		Total:       total,
		Duration:    time.Since(startTime),
		DebugOutput: runner.debugLogger.Output(),
	}
}
