package suites

import (
	"context"
	"net/url"

	"github.com/ga4gh/compliance-harness/data"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	f "github.com/ga4gh/compliance-harness/framework/fields"
	"github.com/ga4gh/compliance-harness/framework/harness"
)

func registerCustomTests(registry *compliance.Registry, api apiCaller, tests []data.CustomTest) {
	for _, t := range tests {
		registry.Register(t.Title, t.Description, t.DocLink, customTestProcedure(api, t))
	}
}

// customTestProcedure sends the test's single request and checks either the top-level fields of
// the response or the fields of the first element of the named collection.
func customTestProcedure(api apiCaller, t data.CustomTest) compliance.Procedure {
	req := harness.Request{Method: t.Method, Path: t.Path}
	if !t.Body.IsNull() {
		req.Body = t.Body
	}
	if len(t.Query) != 0 {
		req.Query = url.Values{}
		for k, v := range t.Query {
			req.Query.Set(k, v)
		}
	}
	return func(ctx context.Context, r *compliance.Runner) {
		result := api.do(ctx, r, req)
		if t.Collection != "" {
			f.AssertArrayObject(r, result, t.Collection, "", t.Fields...)
		} else {
			f.AssertFields(r, result, "", t.Fields...)
		}
	}
}
