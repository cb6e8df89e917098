package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	"github.com/ga4gh/compliance-harness/framework/harness"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestRunCommand(params *commandParams, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	params.addRunFlags(cmd.Flags())
	_ = cmd.Flags().Parse(args)
	return cmd
}

func TestConfigFileSetsFlagsNotGivenOnCommandLine(t *testing.T) {
	config := writeTempFile(t, "config.yaml", `
endpoint: http://example.com/v0.5
dataset: from-config
parallel: 2
header:
  - "Authorization: Bearer abc"
  - "X-Extra: 1"
skip:
  - "v0.5/Search Reads"
`)
	var params commandParams
	cmd := newTestRunCommand(&params, "--dataset", "from-flag")
	require.NoError(t, applyConfigFile(cmd, config))

	assert.Equal(t, "http://example.com/v0.5", params.endpoint)
	assert.Equal(t, "from-flag", params.datasetID)
	assert.Equal(t, 2, params.parallelism)
	assert.Equal(t, []string{"Authorization: Bearer abc", "X-Extra: 1"}, params.headers)
	assert.False(t, params.filters.Match(compliance.TestID{"v0.5", "Search Reads"}))
	assert.True(t, params.filters.Match(compliance.TestID{"v0.5", "References"}))
}

func TestConfigFileErrors(t *testing.T) {
	var params commandParams
	cmd := newTestRunCommand(&params)
	assert.Error(t, applyConfigFile(cmd, filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, applyConfigFile(cmd, writeTempFile(t, "a.yaml", "no-such-option: 1\n")))
	assert.Error(t, applyConfigFile(cmd, writeTempFile(t, "b.yaml", "parallel: lots\n")))
}

func TestValidate(t *testing.T) {
	params := commandParams{apiVersion: apimodel.V05}
	assert.Error(t, params.validate(true))
	assert.NoError(t, params.validate(false))

	params.endpoint = "http://localhost"
	assert.NoError(t, params.validate(true))

	params.apiVersion = "v1.0"
	assert.Error(t, params.validate(true))

	params = commandParams{apiVersion: apimodel.V01, customOnly: true}
	assert.Error(t, params.validate(false))
}

func TestClientOptionsParseHeaders(t *testing.T) {
	params := commandParams{requestTimeout: harness.DefaultRequestTimeout, headers: []string{"Authorization: Bearer a:b"}}
	options, err := params.clientOptions()
	require.NoError(t, err)
	assert.Len(t, options, 2)

	params.headers = []string{"no-colon"}
	_, err = params.clientOptions()
	assert.Error(t, err)
}

func TestSuppressionsMatchExactNames(t *testing.T) {
	params := commandParams{skipFile: writeTempFile(t, "skip.txt", "# known failures\n\nv0.5/Reference Sets\n")}
	require.NoError(t, loadSuppressions(&params))

	assert.False(t, params.filters.Match(compliance.TestID{"v0.5", "Reference Sets"}))
	assert.True(t, params.filters.Match(compliance.TestID{"v0.5", "Reference Sets (extra)"}))
	assert.True(t, params.filters.Match(compliance.TestID{"v0x5", "Reference Sets"}))
}

func TestListTests(t *testing.T) {
	params := commandParams{apiVersion: apimodel.V01}
	require.NoError(t, params.filters.MustNotMatch.Set("v0.1/Search Reads "))

	var out bytes.Buffer
	require.NoError(t, listTests(&out, params))
	assert.Equal(t, `Some tests will be skipped based on the filter criteria for this test run:
  skip any matching "v0.1/Search Reads "

test0   v0.1/Search Readsets (v0.1)
        http://ga4gh.org/#/apis/reads/v0.1/readsets
test1   v0.1/Search Reads (v0.1) (skipped)
        http://ga4gh.org/#/apis/reads/v0.1/reads

2 tests
`, out.String())
}
