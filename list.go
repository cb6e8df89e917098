package main

import (
	"io"
	"os"

	"github.com/ga4gh/compliance-harness/framework/compliance"
	"github.com/ga4gh/compliance-harness/framework/harness"
	h "github.com/ga4gh/compliance-harness/framework/helpers"
	"github.com/ga4gh/compliance-harness/suites"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tests that a run would include",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := params.validate(false); err != nil {
				return err
			}
			if params.skipFile != "" {
				if err := loadSuppressions(&params); err != nil {
					return err
				}
			}
			return listTests(os.Stdout, params)
		},
	}
	params.addSuiteFlags(cmd.Flags())
	return cmd
}

func listTests(out io.Writer, params commandParams) error {
	options, err := loadSuiteOptions(params)
	if err != nil {
		return err
	}
	// The client is never used, since nothing is run.
	client, err := harness.NewClient("http://localhost")
	if err != nil {
		return err
	}
	registry, err := suites.NewRegistry(client, options)
	if err != nil {
		return err
	}

	compliance.PrintFilterDescription(out, params.filters)
	for _, c := range registry.Cases() {
		marker := ""
		if params.filters.IsDefined() && !params.filters.Match(c.Name()) {
			marker = " (skipped)"
		}
		h.MustFprintf(out, "%-7s %s%s\n", c.ID, c.Name(), marker)
		if c.DocLink != "" {
			h.MustFprintf(out, "        %s\n", c.DocLink)
		}
	}
	h.MustFprintln(out)
	h.MustFprintf(out, "%d tests\n", registry.Len())
	return nil
}
