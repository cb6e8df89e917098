package compliance

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"
)

// JUnitTestLogger writes the results of a run to a file in JUnit XML format, for CI systems that
// display test reports.
type JUnitTestLogger struct {
	filePath string
	filters  RegexFilters
	skipped  map[string]string
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
	SystemOut   string               `xml:"system-out,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitTestLogger(filePath string, filters RegexFilters) *JUnitTestLogger {
	return &JUnitTestLogger{
		filePath: filePath,
		filters:  filters,
		skipped:  make(map[string]string),
	}
}

func (j *JUnitTestLogger) TestStarted(*TestCase) {}

func (j *JUnitTestLogger) TestSkipped(c *TestCase, reason string) {
	j.skipped[c.Name().String()] = reason
}

func (j *JUnitTestLogger) TestFinished(TestResult) {}

func (j *JUnitTestLogger) EndLog(results Results) error {
	fmt.Printf("Writing JUnit data to %s\n", j.filePath)

	data, err := j.render(results)
	if err != nil {
		return err
	}
	return os.WriteFile(j.filePath, data, 0644) //nolint:gosec
}

func (j *JUnitTestLogger) render(results Results) ([]byte, error) {
	suite := jUnitXMLTestSuite{
		Name: fmt.Sprintf("GA4GH API compliance: %s", results.Suite),
		Properties: []jUnitXMLProperty{
			{Name: "run.id", Value: results.RunID},
			{Name: "api.endpoint", Value: results.Endpoint},
			{Name: "api.datasetId", Value: results.DatasetID},
			{Name: "api.score", Value: ScoreLabel(results.Score, results.Total)},
			{Name: "tests.filter.mustMatch", Value: j.filters.MustMatch.String()},
			{Name: "tests.filter.mustNotMatch", Value: j.filters.MustNotMatch.String()},
		},
	}
	suiteTotalDuration := time.Duration(0)
	for _, r := range results.Tests {
		suite.Tests++
		suiteTotalDuration += r.Duration
		testCase := jUnitXMLTestCase{
			Classname: results.Suite,
			Name:      fmt.Sprintf("%s (%s)", r.Title, r.Label()),
			Time:      jUnitDurationString(r.Duration),
		}
		if !r.Perfect() {
			suite.Failures++
			var messages []string
			messages = append(messages, r.FatalErrors...)
			for _, w := range r.Warnings() {
				messages = append(messages, w.Message)
			}
			testCase.Failure = &jUnitXMLFailure{
				Message:  fmt.Sprintf("scored %s", r.Label()),
				Type:     string(r.Class()),
				Contents: strings.Join(messages, "\n"),
			}
		}
		testCase.SystemOut = r.DebugOutput.ToString("")
		suite.TestCases = append(suite.TestCases, testCase)
	}
	for _, id := range results.Skipped {
		suite.Tests++
		suite.Skipped++
		suite.TestCases = append(suite.TestCases, jUnitXMLTestCase{
			Classname:   results.Suite,
			Name:        id[len(id)-1],
			Time:        jUnitDurationString(0),
			SkipMessage: &jUnitXMLSkipMessage{Message: j.skipped[id.String()]},
		})
	}
	suite.Time = jUnitDurationString(suiteTotalDuration)

	doc := jUnitXMLDocument{Suites: []jUnitXMLTestSuite{suite}}
	bytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bytes, '\n'), nil
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
