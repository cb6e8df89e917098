package compliance

import (
	"strconv"
	"strings"
	"time"

	"github.com/ga4gh/compliance-harness/framework"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Status is the lifecycle state of a TestCase.
type Status int

const (
	StatusRegistered Status = iota
	StatusRunning
	StatusCompleted
	StatusTimedOut
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "registered"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusTimedOut:
		return "timed out"
	case StatusSkipped:
		return "skipped"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// ScoreClass is a coarse classification of a score, used for colour coding.
type ScoreClass string

const (
	ScoreError   ScoreClass = "error"
	ScoreLow     ScoreClass = "low"
	ScoreHigh    ScoreClass = "high"
	ScorePerfect ScoreClass = "perfect"
)

// ScoreLabel renders a score as "total" if it is perfect, or "score/total" otherwise.
func ScoreLabel(score, total int) string {
	if score == total {
		return strconv.Itoa(total)
	}
	return strconv.Itoa(score) + "/" + strconv.Itoa(total)
}

// ClassifyScore classifies the fraction score/total. A score with no assertions at all counts as
// perfect; callers that know about fatal errors should check those first.
func ClassifyScore(score, total int) ScoreClass {
	if total == 0 || score == total {
		return ScorePerfect
	}
	fraction := float64(score) / float64(total)
	switch {
	case fraction == 0:
		return ScoreError
	case fraction > 0.5:
		return ScoreHigh
	default:
		return ScoreLow
	}
}

// TestID identifies a test for filtering and reporting. It consists of the suite name followed by
// the test title.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

// TestResult is the final state of one test case.
type TestResult struct {
	ID          string
	Name        TestID
	Title       string
	Description string
	DocLink     string
	Status      Status
	Assertions  []AssertionResult
	FatalErrors []string
	Payloads    []ldvalue.Value
	Score       int
	Total       int
	Duration    time.Duration
	DebugOutput framework.CapturedOutput
}

// Class returns the score classification of the test. Any fatal error makes it ScoreError.
func (r TestResult) Class() ScoreClass {
	if len(r.FatalErrors) != 0 {
		return ScoreError
	}
	return ClassifyScore(r.Score, r.Total)
}

// Perfect returns true if the test completed with no fatal errors and no warnings.
func (r TestResult) Perfect() bool {
	return r.Class() == ScorePerfect
}

// Label returns ScoreLabel for the test's score.
func (r TestResult) Label() string {
	return ScoreLabel(r.Score, r.Total)
}

// Warnings returns the assertions that did not pass.
func (r TestResult) Warnings() []AssertionResult {
	var ret []AssertionResult
	for _, a := range r.Assertions {
		if a.Warning {
			ret = append(ret, a)
		}
	}
	return ret
}

// Results is the outcome of an entire run.
type Results struct {
	RunID     string
	Suite     string
	Endpoint  string
	DatasetID string
	StartTime time.Time
	Duration  time.Duration
	// Tests contains the results of every test that ran, in registration order.
	Tests []TestResult
	// Skipped contains the names of tests that were excluded by the filter.
	Skipped []TestID
	Score   int
	Total   int
}

// OK returns true if every test that ran had a perfect score.
func (r Results) OK() bool {
	for _, t := range r.Tests {
		if !t.Perfect() {
			return false
		}
	}
	return true
}

// Failures returns the tests that did not have a perfect score.
func (r Results) Failures() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if !t.Perfect() {
			ret = append(ret, t)
		}
	}
	return ret
}

// Class returns the classification of the aggregate score.
func (r Results) Class() ScoreClass {
	return ClassifyScore(r.Score, r.Total)
}

// Summary is the one-line description of the aggregate score.
func (r Results) Summary() string {
	return "this API scores " + strconv.Itoa(r.Score) + " out of " + strconv.Itoa(r.Total) + " points"
}
