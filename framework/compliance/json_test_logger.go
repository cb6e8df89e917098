package compliance

import (
	"fmt"
	"os"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// JSONTestLogger writes a machine-readable report of a run to a file.
type JSONTestLogger struct {
	filePath string
}

func NewJSONTestLogger(filePath string) *JSONTestLogger {
	return &JSONTestLogger{filePath: filePath}
}

func (j *JSONTestLogger) TestStarted(*TestCase)         {}
func (j *JSONTestLogger) TestSkipped(*TestCase, string) {}
func (j *JSONTestLogger) TestFinished(TestResult)       {}

func (j *JSONTestLogger) EndLog(results Results) error {
	fmt.Printf("Writing JSON report to %s\n", j.filePath)
	data, err := MarshalResults(results)
	if err != nil {
		return err
	}
	return os.WriteFile(j.filePath, data, 0644) //nolint:gosec
}

// MarshalResults renders the results of a run as JSON.
func MarshalResults(results Results) ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("runId").String(results.RunID)
	obj.Name("suite").String(results.Suite)
	obj.Name("endpoint").String(results.Endpoint)
	obj.Name("datasetId").String(results.DatasetID)
	obj.Name("startTime").String(results.StartTime.UTC().Format("2006-01-02T15:04:05.000Z"))
	obj.Name("durationMillis").Int(int(results.Duration.Milliseconds()))
	obj.Name("score").Int(results.Score)
	obj.Name("total").Int(results.Total)
	obj.Name("label").String(ScoreLabel(results.Score, results.Total))
	obj.Name("class").String(string(results.Class()))

	tests := obj.Name("tests").Array()
	for _, r := range results.Tests {
		writeTestResult(&w, r)
	}
	tests.End()

	skipped := obj.Name("skipped").Array()
	for _, id := range results.Skipped {
		w.String(id.String())
	}
	skipped.End()

	obj.End()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func writeTestResult(w *jwriter.Writer, r TestResult) {
	obj := w.Object()
	obj.Name("id").String(r.ID)
	obj.Name("title").String(r.Title)
	obj.Maybe("description", r.Description != "").String(r.Description)
	obj.Maybe("docLink", r.DocLink != "").String(r.DocLink)
	obj.Name("status").String(r.Status.String())
	obj.Name("score").Int(r.Score)
	obj.Name("total").Int(r.Total)
	obj.Name("class").String(string(r.Class()))
	obj.Name("durationMillis").Int(int(r.Duration.Milliseconds()))

	assertions := obj.Name("assertions").Array()
	for _, a := range r.Assertions {
		ao := w.Object()
		ao.Name("message").String(a.Message)
		ao.Name("warning").Bool(a.Warning)
		ao.End()
	}
	assertions.End()

	fatalErrors := obj.Name("fatalErrors").Array()
	for _, e := range r.FatalErrors {
		w.String(e)
	}
	fatalErrors.End()

	payloads := obj.Name("payloads").Array()
	for _, p := range r.Payloads {
		p.WriteToJSONWriter(w)
	}
	payloads.End()

	obj.End()
}
