package main

import (
	"bufio"
	"context"
	_ "embed" // this is required in order for go:embed to work
	"errors"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/ga4gh/compliance-harness/data"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	"github.com/ga4gh/compliance-harness/framework/harness"
	"github.com/ga4gh/compliance-harness/suites"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

// errNotPerfect is returned by a run in which some test did not score perfectly. The results have
// already been reported, so nothing more is printed for it.
var errNotPerfect = errors.New("not every test scored perfectly")

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errNotPerfect) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var params commandParams
	root := &cobra.Command{
		Use:   "ga4gh-compliance",
		Short: "Checks a GA4GH genomics API server for conformance",
		Long: `Sends a fixed battery of requests to a GA4GH API endpoint and checks that the responses
have the expected fields with the expected types. Each test is scored by the number of checks
that pass, and the run is scored by the sum of the test scores.

Running without a subcommand is the same as "run".`,
		Version:       strings.TrimSpace(versionString),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, &params)
		},
	}
	params.addRunFlags(root.Flags())

	var runParams commandParams
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tests against an endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, &runParams)
		},
	}
	runParams.addRunFlags(runCmd.Flags())

	root.AddCommand(runCmd, newListCommand(), newServeMockCommand())
	return root
}

// runCommand is called after the command line has been parsed into params. Values from a config
// file are applied through the flag set, so they also end up in params.
func runCommand(cmd *cobra.Command, params *commandParams) error {
	if params.configFile != "" {
		if err := applyConfigFile(cmd, params.configFile); err != nil {
			return err
		}
	}
	if err := params.validate(true); err != nil {
		return err
	}

	results, err := run(cmd.Context(), *params, newLogger(params.debugAll))
	if err != nil {
		return err
	}
	if !results.OK() {
		return errNotPerfect
	}
	return nil
}

func run(ctx context.Context, params commandParams, logger *logrus.Logger) (*compliance.Results, error) {
	fmt.Printf("ga4gh-compliance v%s\n", strings.TrimSpace(versionString))

	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	options, err := params.clientOptions()
	if err != nil {
		return nil, err
	}
	client, err := harness.NewClient(params.endpoint, options...)
	if err != nil {
		return nil, err
	}
	if params.waitForEndpoint > 0 {
		if err := client.WaitForEndpoint(ctx, params.waitForEndpoint, os.Stdout); err != nil {
			return nil, fmt.Errorf("API at %s is not reachable: %w", client.BaseURL(), err)
		}
	}

	suiteOptions, err := loadSuiteOptions(params)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"endpoint":   client.BaseURL(),
		"dataset":    params.datasetID,
		"apiVersion": params.apiVersion,
	}).Debug("Starting test run")

	var testLoggers compliance.MultiTestLogger
	testLoggers = append(testLoggers, compliance.ConsoleTestLogger{
		ShowAllFields:        params.showAllFields,
		DebugJSON:            params.debugJSON,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	})
	if params.jUnitFile != "" {
		testLoggers = append(testLoggers, compliance.NewJUnitTestLogger(params.jUnitFile, params.filters))
	}
	if params.jsonFile != "" {
		testLoggers = append(testLoggers, compliance.NewJSONTestLogger(params.jsonFile))
	}

	fmt.Println()
	compliance.PrintFilterDescription(os.Stdout, params.filters)

	results, err := suites.RunTestSuite(ctx, client, suiteOptions, compliance.RunConfig{
		Filter:      params.filters,
		TestLogger:  testLoggers,
		DatasetID:   params.datasetID,
		Endpoint:    client.BaseURL(),
		Timeout:     params.timeout,
		Parallelism: params.parallelism,
	})
	if err != nil {
		return nil, err
	}
	logger.WithField("runId", results.RunID).Debugf("Finished in %s", results.Duration)

	if params.recordFailures != "" {
		if err := recordFailures(params.recordFailures, results); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

func loadSuiteOptions(params commandParams) (suites.SuiteOptions, error) {
	options := suites.SuiteOptions{Version: params.apiVersion, SkipBuiltIn: params.customOnly}
	fixtures, err := data.LoadFixtures(params.apiVersion)
	if err != nil {
		return options, err
	}
	if params.fixturesFile != "" {
		if err := fixtures.ApplyFixturesFile(params.fixturesFile); err != nil {
			return options, err
		}
	}
	options.Fixtures = fixtures
	if params.suiteFile != "" {
		tests, err := data.LoadCustomSuite(params.suiteFile, params.datasetID)
		if err != nil {
			return options, err
		}
		options.CustomTests = tests
	}
	return options, nil
}

func recordFailures(path string, results compliance.Results) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("cannot create failures file: %w", err)
	}
	defer func() { _ = f.Close() }()
	for _, test := range results.Failures() {
		if _, err := fmt.Fprintln(f, test.Name); err != nil {
			return err
		}
	}
	return nil
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines and comments
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := params.filters.MustNotMatch.Set(exactTestIDPattern(line)); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}

// exactTestIDPattern turns a test name as printed by --record-failures into a pattern matching
// only that test.
func exactTestIDPattern(name string) string {
	parts := strings.Split(strings.TrimSpace(name), "/")
	for i, p := range parts {
		parts[i] = "^" + regexp.QuoteMeta(p) + "$"
	}
	return strings.Join(parts, "/")
}

// newLogger creates the process logger. Per-test request logs are captured separately and shown
// by the console reporter.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// debugLogAdapter lets a logrus logger serve as a framework.Logger, writing at debug level.
type debugLogAdapter struct {
	log *logrus.Logger
}

func (d debugLogAdapter) Println(args ...interface{}) { d.log.Debugln(args...) }

func (d debugLogAdapter) Printf(message string, args ...interface{}) { d.log.Debugf(message, args...) }
