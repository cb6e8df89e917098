package suites

import (
	"context"
	"net/url"

	"github.com/ga4gh/compliance-harness/framework/compliance"
	"github.com/ga4gh/compliance-harness/framework/harness"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// apiCaller sends a test's requests, logging the traffic to the test's debug output and recording
// any failed request as a fatal error. A test carries on after a failed request, checking whatever
// it got back, so that every assertion is still counted.
type apiCaller struct {
	client *harness.Client
}

func (a apiCaller) post(ctx context.Context, r *compliance.Runner, path string, body interface{}) ldvalue.Value {
	return a.do(ctx, r, harness.Request{Method: "POST", Path: path, Body: body})
}

func (a apiCaller) get(ctx context.Context, r *compliance.Runner, path string, query url.Values) ldvalue.Value {
	return a.do(ctx, r, harness.Request{Method: "GET", Path: path, Query: query})
}

func (a apiCaller) do(ctx context.Context, r *compliance.Runner, req harness.Request) ldvalue.Value {
	result := a.client.Do(ctx, req, r.DebugLogger())
	r.CheckHTTPError(result)
	return result
}

// nonNil keeps a list of IDs from being encoded as null.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// stringsOf returns the string elements of a JSON array.
func stringsOf(array ldvalue.Value) []string {
	var ret []string
	for i := 0; i < array.Count(); i++ {
		if item := array.GetByIndex(i); item.IsString() {
			ret = append(ret, item.StringValue())
		}
	}
	return ret
}
