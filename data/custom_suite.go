package data

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ga4gh/compliance-harness/framework/fields"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// CustomTest is a user-defined test loaded from a suite file. It sends one request and checks the
// fields of the response, or of the first element of one of its collections.
type CustomTest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DocLink     string            `json:"docLink"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Query       map[string]string `json:"query"`
	Body        ldvalue.Value     `json:"body"`
	// Collection, if set, names an array property of the response whose first element is
	// checked. The check that the array is non-empty counts as an assertion.
	Collection string        `json:"collection"`
	Fields     []fields.Spec `json:"fields"`
}

type customSuiteFile struct {
	Tests []CustomTest `json:"tests"`
	// These have already been expanded by the loader.
	Constants  ldvalue.Value `json:"constants"`
	Parameters ldvalue.Value `json:"parameters"`
}

// LoadCustomSuite reads user-defined tests from a YAML or JSON file. The placeholder <datasetId>
// may be used anywhere in the file; the file may also declare its own constants and parameters.
func LoadCustomSuite(path string, datasetID string) ([]CustomTest, error) {
	sources, err := LoadExternalFile(path, map[string]ldvalue.Value{"datasetId": ldvalue.String(datasetID)})
	if err != nil {
		return nil, err
	}
	var ret []CustomTest
	for _, source := range sources {
		var file customSuiteFile
		if err := source.ParseInto(&file); err != nil {
			return nil, err
		}
		for i, t := range file.Tests {
			if err := t.validate(); err != nil {
				return nil, fmt.Errorf("test %d in %q %s: %w", i+1, source.BaseName, source.ParamsString(), err)
			}
			if t.Method == "" {
				t.Method = http.MethodPost
				if t.Body.IsNull() {
					t.Method = http.MethodGet
				}
			}
			t.Method = strings.ToUpper(t.Method)
			ret = append(ret, t)
		}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("no tests were defined in %q", path)
	}
	return ret, nil
}

func (t CustomTest) validate() error {
	if t.Title == "" {
		return errors.New("title is required")
	}
	if t.Path == "" {
		return errors.New("path is required")
	}
	if len(t.Fields) == 0 && t.Collection == "" {
		return errors.New("at least one of fields or collection is required")
	}
	return nil
}
