package suites

import (
	"context"
	"fmt"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/data"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	"github.com/ga4gh/compliance-harness/framework/harness"
)

// SuiteOptions selects the tests that make up a run.
type SuiteOptions struct {
	// Version is the API version, such as "v0.5". It is also the suite name.
	Version string

	// Fixtures are the values that the built-in tests search for.
	Fixtures data.Fixtures

	// CustomTests are registered after the built-in tests.
	CustomTests []data.CustomTest

	// SkipBuiltIn omits the built-in tests, so that only CustomTests are run.
	SkipBuiltIn bool
}

// NewRegistry creates a Registry holding every test selected by the options, in the order in
// which they are reported.
func NewRegistry(client *harness.Client, options SuiteOptions) (*compliance.Registry, error) {
	registry := compliance.NewRegistry(options.Version)
	api := apiCaller{client: client}
	if !options.SkipBuiltIn {
		switch options.Version {
		case apimodel.V05:
			registerV05Tests(registry, api, options.Fixtures)
		case apimodel.V01:
			registerV01Tests(registry, api, options.Fixtures)
		default:
			return nil, fmt.Errorf("unsupported API version %q", options.Version)
		}
	}
	registerCustomTests(registry, api, options.CustomTests)
	if registry.Len() == 0 {
		return nil, fmt.Errorf("no tests were selected for API version %q", options.Version)
	}
	return registry, nil
}

// RunTestSuite builds the registry for the options and runs it against the client's endpoint.
func RunTestSuite(
	ctx context.Context,
	client *harness.Client,
	options SuiteOptions,
	config compliance.RunConfig,
) (compliance.Results, error) {
	registry, err := NewRegistry(client, options)
	if err != nil {
		return compliance.Results{}, err
	}
	if config.Endpoint == "" {
		config.Endpoint = client.BaseURL()
	}
	return compliance.Run(ctx, registry, config)
}
