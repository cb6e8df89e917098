package compliance

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ga4gh/compliance-harness/framework/helpers"

	"github.com/fatih/color"
)

var consoleTestErrorColor = color.New(color.FgRed)                 //nolint:gochecknoglobals
var consoleTestSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)               //nolint:gochecknoglobals
var consoleFieldPassedColor = color.New(color.FgGreen)             //nolint:gochecknoglobals
var consoleFieldWarningColor = color.New(color.FgYellow)           //nolint:gochecknoglobals

var consoleScoreColors = map[ScoreClass]*color.Color{ //nolint:gochecknoglobals
	ScoreError:   color.New(color.FgRed, color.Bold),
	ScoreLow:     color.New(color.FgYellow, color.Bold),
	ScoreHigh:    color.New(color.FgCyan, color.Bold),
	ScorePerfect: color.New(color.FgGreen, color.Bold),
}

// TestLogger receives status information about a test run.
type TestLogger interface {
	TestStarted(c *TestCase)
	TestSkipped(c *TestCase, reason string)
	TestFinished(result TestResult)
	// EndLog is called exactly once, after every test has finished.
	EndLog(results Results) error
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(*TestCase)         {}
func (n nullTestLogger) TestSkipped(*TestCase, string) {}
func (n nullTestLogger) TestFinished(TestResult)       {}
func (n nullTestLogger) EndLog(Results) error          { return nil }

// ConsoleTestLogger prints human-readable results. Test results appear in the order the tests
// finish, each headed by its colour-coded score.
type ConsoleTestLogger struct {
	// Out defaults to os.Stdout.
	Out io.Writer

	// ShowAllFields lists passing field checks as well as warnings.
	ShowAllFields bool

	// DebugJSON prints the raw response payloads of each test.
	DebugJSON bool

	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c ConsoleTestLogger) TestStarted(*TestCase) {}

func (c ConsoleTestLogger) TestSkipped(tc *TestCase, reason string) {
	if reason == "" {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "[%s] SKIPPED\n", tc.Name())
	} else {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "[%s] SKIPPED (%s)\n", tc.Name(), reason)
	}
}

func (c ConsoleTestLogger) TestFinished(result TestResult) {
	w := c.out()
	_, _ = fmt.Fprintf(w, "[%s] ", result.Name)
	_, _ = consoleScoreColors[result.Class()].Fprintln(w, result.Label())
	if result.Description != "" {
		_, _ = consoleDebugOutputColor.Fprintf(w, "  %s\n", result.Description)
	}

	failed := !result.Perfect()
	if len(result.FatalErrors) != 0 {
		_, _ = consoleTestErrorColor.Fprintln(w, "  Testing could not complete due to errors:")
		for _, e := range result.FatalErrors {
			for _, line := range strings.Split(e, "\n") {
				_, _ = consoleTestErrorColor.Fprintf(w, "    %s\n", line)
			}
		}
	}
	if failed || c.ShowAllFields {
		for _, a := range result.Assertions {
			switch {
			case a.Warning:
				_, _ = consoleFieldWarningColor.Fprintf(w, "  ✗ %s\n", a.Message)
			case c.ShowAllFields:
				_, _ = consoleFieldPassedColor.Fprintf(w, "  ✓ %s\n", a.Message)
			}
		}
		if failed && result.DocLink != "" {
			_, _ = consoleDebugOutputColor.Fprintf(w, "  see %s\n", result.DocLink)
		}
	}
	if c.DebugJSON {
		for _, p := range result.Payloads {
			_, _ = consoleDebugOutputColor.Fprintln(w, helpers.IndentedJSONString(p, "    "))
		}
	}
	if len(result.DebugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Fprintln(w, result.DebugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleTestLogger) EndLog(results Results) error {
	w := c.out()
	_, _ = fmt.Fprintln(w)
	if failures := results.Failures(); len(failures) != 0 {
		_, _ = consoleTestErrorColor.Fprintf(w, "IMPERFECT TESTS (%d):\n", len(failures))
		for _, f := range failures {
			_, _ = consoleTestErrorColor.Fprintf(w, "  * %s (%s)\n", f.Name, f.Label())
		}
	}
	_, err := consoleScoreColors[results.Class()].Fprintln(w, results.Summary())
	return err
}

// MultiTestLogger passes every call on to each of its loggers. EndLog returns the first error.
type MultiTestLogger []TestLogger

func (m MultiTestLogger) TestStarted(c *TestCase) {
	for _, l := range m {
		l.TestStarted(c)
	}
}

func (m MultiTestLogger) TestSkipped(c *TestCase, reason string) {
	for _, l := range m {
		l.TestSkipped(c, reason)
	}
}

func (m MultiTestLogger) TestFinished(result TestResult) {
	for _, l := range m {
		l.TestFinished(result)
	}
}

func (m MultiTestLogger) EndLog(results Results) error {
	var firstErr error
	for _, l := range m {
		if err := l.EndLog(results); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
