package mockapi

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/framework/harness"
	"github.com/ga4gh/compliance-harness/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockAPI(t *testing.T, version string, action func(*harness.Client)) {
	ds, err := LoadDataset(version)
	require.NoError(t, err)
	service, err := NewService(version, ds, nil)
	require.NoError(t, err)
	httphelpers.WithServer(service, func(server *httptest.Server) {
		client, err := harness.NewClient(server.URL)
		require.NoError(t, err)
		action(client)
	})
}

func TestUnsupportedVersion(t *testing.T) {
	_, err := NewService("v9", Dataset{}, nil)
	assert.Error(t, err)
	_, err = LoadDataset("v9")
	assert.Error(t, err)
}

func TestInvalidDataset(t *testing.T) {
	_, err := ParseDataset([]byte(`{"references": 3}`))
	assert.Error(t, err)
}

func TestSearchReferenceSetsByAccession(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		result := c.Post(context.Background(), apimodel.PathReferenceSetsSearch,
			apimodel.SearchReferenceSetsRequest{Accessions: []string{"GCA_000001405.15"}}, nil)
		assert.Equal(t, []string{"refset-grch38"}, helpers.Pluck(result.GetByKey("referenceSets"), "id"))
		assert.Equal(t, ldvalue.Null(), result.GetByKey(apimodel.NextPageTokenProperty))

		result = c.Post(context.Background(), apimodel.PathReferenceSetsSearch,
			apimodel.SearchReferenceSetsRequest{Accessions: []string{"unknown"}}, nil)
		assert.Equal(t, 0, result.GetByKey("referenceSets").Count())
	})
}

func TestGetByID(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		result := c.Get(context.Background(), apimodel.ReferencePath("ref-grch38-22"), nil, nil)
		assert.Equal(t, "22", result.GetByKey("name").StringValue())

		result = c.Get(context.Background(), apimodel.ReferenceSetPath("nope"), nil, nil)
		assert.Equal(t, 404, result.GetByKey("status").IntValue())
		assert.Equal(t, ErrorCodeNotFound, result.GetByKey("errorCode").IntValue())
		assert.Equal(t, "reference set not found: nope", result.GetByKey("message").StringValue())
	})
}

func TestPaging(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		var ids []string
		token := ""
		for pages := 0; pages < 10; pages++ {
			result := c.Post(context.Background(), apimodel.PathReferencesSearch,
				apimodel.SearchReferencesRequest{ReferenceSetID: "refset-grch38",
					Paging: apimodel.Paging{PageSize: 1, PageToken: token}}, nil)
			page := helpers.Pluck(result.GetByKey("references"), "id")
			require.Len(t, page, 1)
			ids = append(ids, page...)
			next := result.GetByKey(apimodel.NextPageTokenProperty)
			if next.IsNull() {
				break
			}
			token = next.StringValue()
		}
		assert.Equal(t, []string{"ref-grch38-1", "ref-grch38-22"}, ids)
	})
}

func TestBadPageToken(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		result := c.Post(context.Background(), apimodel.PathReferencesSearch,
			apimodel.SearchReferencesRequest{Paging: apimodel.Paging{PageToken: "x"}}, nil)
		assert.Equal(t, 400, result.GetByKey("status").IntValue())
		assert.Equal(t, ErrorCodeInvalidPageToken, result.GetByKey("errorCode").IntValue())
	})
}

func TestReferenceBases(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		result := c.Get(context.Background(), apimodel.ReferenceBasesPath("ref-grch38-1"),
			url.Values{"start": {"15000"}, "end": {"15010"}}, nil)
		assert.JSONEq(t, `{"offset": "15000", "sequence": "ATCCGACATC", "nextPageToken": null}`,
			result.JSONString())

		result = c.Get(context.Background(), apimodel.ReferenceBasesPath("ref-grch38-1"),
			url.Values{"start": {"0"}, "end": {"10"}}, nil)
		assert.Equal(t, ErrorCodeInvalidRange, result.GetByKey("errorCode").IntValue())

		result = c.Get(context.Background(), apimodel.ReferenceBasesPath("ref-grch38-1"),
			url.Values{"start": {"abc"}}, nil)
		assert.Equal(t, 400, result.GetByKey("status").IntValue())
	})
}

func TestSearchReadsByRegion(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		request := apimodel.SearchReadsRequest{ReadGroupIDs: []string{"rg-na12878-1"}, ReferenceName: "22",
			Start: 51005353, End: 51005354}
		result := c.Post(context.Background(), apimodel.PathReadsSearch, request, nil)
		assert.Equal(t, []string{"aln-na12878-1"}, helpers.Pluck(result.GetByKey("alignments"), "id"))

		request.ReferenceName = ""
		request.ReferenceID = "ref-grch38-1"
		result = c.Post(context.Background(), apimodel.PathReadsSearch, request, nil)
		assert.Equal(t, 0, result.GetByKey("alignments").Count())

		request.ReferenceID = ""
		request.Start, request.End = 10, 5
		result = c.Post(context.Background(), apimodel.PathReadsSearch, request, nil)
		assert.Equal(t, ErrorCodeInvalidRange, result.GetByKey("errorCode").IntValue())
	})
}

func TestSearchRequiresIDs(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		result := c.Post(context.Background(), apimodel.PathReadGroupSetsSearch,
			apimodel.SearchReadGroupSetsRequest{}, nil)
		assert.Equal(t, 400, result.GetByKey("status").IntValue())
		assert.Equal(t, "datasetIds must not be empty", result.GetByKey("message").StringValue())
	})
}

func TestSearchVariantsFiltersCalls(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		request := apimodel.SearchVariantsRequest{VariantSetIDs: []string{"vs-1kg-phase3"}, ReferenceName: "22",
			Start: 51005353, End: 51015354}
		result := c.Post(context.Background(), apimodel.PathVariantsSearch, request, nil)
		variants := result.GetByKey("variants")
		assert.Equal(t, []string{"var-rs114690707"}, helpers.Pluck(variants, "id"))
		assert.Equal(t, 1, variants.GetByIndex(0).GetByKey("calls").Count())

		request.CallSetIDs = []string{"someone-else"}
		result = c.Post(context.Background(), apimodel.PathVariantsSearch, request, nil)
		assert.Equal(t, 0, result.GetByKey("variants").GetByIndex(0).GetByKey("calls").Count())
	})
}

func TestInvalidRequestBody(t *testing.T) {
	withMockAPI(t, apimodel.V05, func(c *harness.Client) {
		result := c.Post(context.Background(), apimodel.PathCallSetsSearch, map[string]interface{}{
			"variantSetIds": "not-an-array",
		}, nil)
		assert.Equal(t, 400, result.GetByKey("status").IntValue())
		assert.Equal(t, ErrorCodeInvalidRequest, result.GetByKey("errorCode").IntValue())
	})
}

func TestUnknownEndpoint(t *testing.T) {
	withMockAPI(t, apimodel.V01, func(c *harness.Client) {
		result := c.Post(context.Background(), apimodel.PathReferenceSetsSearch,
			apimodel.SearchReferenceSetsRequest{}, nil)
		assert.Equal(t, 404, result.GetByKey("status").IntValue())
	})
}

func TestSearchReadsV01(t *testing.T) {
	withMockAPI(t, apimodel.V01, func(c *harness.Client) {
		result := c.Post(context.Background(), apimodel.PathReadsetsSearch,
			apimodel.SearchReadsetsRequest{DatasetIDs: []string{DatasetID}, Name: "NA12878"}, nil)
		ids := helpers.Pluck(result.GetByKey("readsets"), "id")
		require.Equal(t, []string{"readset-na12878"}, ids)

		result = c.Post(context.Background(), apimodel.PathReadsSearch, apimodel.SearchReadsV01Request{
			ReadsetIDs: ids, SequenceName: "22", SequenceStart: 51005354, SequenceEnd: 51005354,
		}, nil)
		assert.Equal(t, []string{"read-na12878-1"}, helpers.Pluck(result.GetByKey("reads"), "id"))
	})
}

func TestSetData(t *testing.T) {
	service, err := NewService(apimodel.V05, Dataset{}, nil)
	require.NoError(t, err)
	httphelpers.WithServer(service, func(server *httptest.Server) {
		client, err := harness.NewClient(server.URL)
		require.NoError(t, err)
		request := apimodel.SearchVariantSetsRequest{DatasetIDs: []string{DatasetID}}

		result := client.Post(context.Background(), apimodel.PathVariantSetsSearch, request, nil)
		assert.Equal(t, 0, result.GetByKey("variantSets").Count())

		service.SetData(Dataset{VariantSets: []ldvalue.Value{
			ldvalue.ObjectBuild().Set("id", ldvalue.String("vs1")).Set("datasetId", ldvalue.String(DatasetID)).Build(),
		}})
		result = client.Post(context.Background(), apimodel.PathVariantSetsSearch, request, nil)
		assert.Equal(t, []string{"vs1"}, helpers.Pluck(result.GetByKey("variantSets"), "id"))
	})
}
