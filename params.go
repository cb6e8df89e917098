package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/data"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	"github.com/ga4gh/compliance-harness/framework/harness"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Environment variables that supply defaults for the corresponding flags. They may also be set
// in a .env file in the working directory.
const (
	endpointEnvVar   = "GA4GH_ENDPOINT"
	datasetEnvVar    = "GA4GH_DATASET_ID"
	apiVersionEnvVar = "GA4GH_API_VERSION"
)

type commandParams struct {
	endpoint        string
	datasetID       string
	apiVersion      string
	filters         compliance.RegexFilters
	timeout         time.Duration
	requestTimeout  time.Duration
	parallelism     int
	headers         []string
	waitForEndpoint time.Duration
	debug           bool
	debugAll        bool
	debugJSON       bool
	showAllFields   bool
	jUnitFile       string
	jsonFile        string
	configFile      string
	fixturesFile    string
	suiteFile       string
	customOnly      bool
	skipFile        string
	recordFailures  string
}

func envOrDefault(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// addSuiteFlags adds the flags that determine which tests exist.
func (c *commandParams) addSuiteFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.datasetID, "dataset", "d", os.Getenv(datasetEnvVar), "ID of the dataset to test against")
	fs.StringVar(&c.apiVersion, "api-version", envOrDefault(apiVersionEnvVar, apimodel.V05),
		"API version to test: "+strings.Join(apimodel.Versions(), " or "))
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.fixturesFile, "fixtures", "", "YAML or JSON file overriding the values the built-in tests search for")
	fs.StringVar(&c.suiteFile, "suite-file", "", "YAML or JSON file of additional tests to run")
	fs.BoolVar(&c.customOnly, "custom-only", false, "run only the tests from --suite-file")
	fs.StringVar(&c.skipFile, "skip-from", "", "file listing names of tests to skip, one per line")
}

// addRunFlags adds the flags of a test run.
func (c *commandParams) addRunFlags(fs *pflag.FlagSet) {
	c.addSuiteFlags(fs)
	fs.StringVarP(&c.endpoint, "endpoint", "e", os.Getenv(endpointEnvVar),
		"base URL of the API under test, including any version path")
	fs.DurationVar(&c.timeout, "timeout", compliance.DefaultTimeout, "time limit for each test")
	fs.DurationVar(&c.requestTimeout, "request-timeout", harness.DefaultRequestTimeout, "time limit for each request")
	fs.IntVar(&c.parallelism, "parallel", 0, "maximum number of tests to run at once (0 for no limit)")
	fs.StringArrayVar(&c.headers, "header", nil, `header to add to every request, as "Name: value"`)
	fs.DurationVar(&c.waitForEndpoint, "wait-for-endpoint", 0, "wait up to this long for the API to accept connections")
	fs.BoolVar(&c.debug, "debug", false, "show request logs for tests that are not perfect")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show request logs for all tests, and enable debug logging")
	fs.BoolVar(&c.debugJSON, "debug-json", false, "show the raw JSON responses of each test that is shown")
	fs.BoolVar(&c.showAllFields, "show-all", false, "list every field check, not only the warnings")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&c.jsonFile, "json", "", "write a JSON report to the specified path")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the names of tests that were not perfect to this file")
	fs.StringVar(&c.configFile, "config", "", "YAML or JSON file of flag values")
}

// applyConfigFile sets each flag named in the config file, unless it was given on the command
// line. A list value sets a repeatable flag once per element.
func applyConfigFile(cmd *cobra.Command, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var values map[string]interface{}
	if err := data.ParseJSONOrYAML(raw, &values); err != nil {
		return fmt.Errorf("error parsing config file %q: %w", path, err)
	}
	fs := cmd.Flags()
	for name, value := range values {
		flag := fs.Lookup(name)
		if flag == nil {
			return fmt.Errorf("config file %q has unknown option %q", path, name)
		}
		if flag.Changed {
			continue
		}
		items, isList := value.([]interface{})
		if !isList {
			items = []interface{}{value}
		}
		for _, item := range items {
			if err := fs.Set(name, fmt.Sprint(item)); err != nil {
				return fmt.Errorf("invalid value for %q in config file: %w", name, err)
			}
		}
	}
	return nil
}

func (c *commandParams) validate(requireEndpoint bool) error {
	if !apimodel.IsSupportedVersion(c.apiVersion) {
		return fmt.Errorf("unsupported API version %q, must be one of: %s", c.apiVersion,
			strings.Join(apimodel.Versions(), ", "))
	}
	if requireEndpoint && c.endpoint == "" {
		return fmt.Errorf("--endpoint is required (or set %s)", endpointEnvVar)
	}
	if c.customOnly && c.suiteFile == "" {
		return fmt.Errorf("--custom-only requires --suite-file")
	}
	return nil
}

func (c *commandParams) clientOptions() ([]harness.ClientOption, error) {
	options := []harness.ClientOption{harness.WithTimeout(c.requestTimeout)}
	for _, h := range c.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf(`invalid header %q, must be "Name: value"`, h)
		}
		options = append(options, harness.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	return options, nil
}
