package suites

import (
	"context"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/data"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	f "github.com/ga4gh/compliance-harness/framework/fields"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

func registerV01Tests(registry *compliance.Registry, api apiCaller, fx data.Fixtures) {
	v := v01Tests{api: api, fx: fx}
	registry.Register(
		"Search Readsets (v0.1)",
		"Fetches readsets from the specified dataset and tests their fields.",
		"http://ga4gh.org/#/apis/reads/v0.1/readsets",
		v.searchReadsets,
	)
	registry.Register(
		"Search Reads (v0.1)",
		"Looks up a readset for "+fx.Reads.SampleName+" from the specified dataset, then fetches reads.",
		"http://ga4gh.org/#/apis/reads/v0.1/reads",
		v.searchReads,
	)
}

type v01Tests struct {
	api apiCaller
	fx  data.Fixtures
}

func (v v01Tests) searchReadsets(ctx context.Context, r *compliance.Runner) {
	result := v.api.post(ctx, r, apimodel.PathReadsetsSearch, apimodel.SearchReadsetsRequest{
		DatasetIDs: []string{r.DatasetID()},
	})
	readset := f.AssertArrayObject(r, result, "readsets", "",
		f.Name("id"),
		f.Name("name"),
		f.Literal("datasetId", ldvalue.String(r.DatasetID())),
		f.Typed("created", f.Date),
		f.Typed("readCount", f.Long),
	)

	prefix := "readsets."
	fileData := f.AssertArrayObject(r, readset, "fileData", prefix,
		f.Name("fileUri"),
		f.Typed("comments", f.Array),
	)

	prefix += "fileData."
	f.AssertArrayObject(r, fileData, "headers", prefix,
		f.Name("version"),
		f.Name("sortingOrder"),
	)
	f.AssertArrayObject(r, fileData, "refSequences", prefix,
		f.Name("name"),
		f.Typed("length", f.Int),
		f.Name("assemblyId"),
		f.Name("md5Checksum"),
		f.Name("species"),
		f.Name("uri"),
	)
	f.AssertArrayObject(r, fileData, "readGroups", prefix,
		f.Name("id"),
		f.Name("sequencingCenterName"),
		f.Name("description"),
		f.Name("date"),
		f.Name("flowOrder"),
		f.Name("keySequence"),
		f.Name("library"),
		f.Name("processingProgram"),
		f.Typed("predictedInsertSize", f.Int),
		f.Name("sequencingTechnology"),
		f.Name("platformUnit"),
		f.Name("sample"),
	)
	f.AssertArrayObject(r, fileData, "programs", prefix,
		f.Name("id"),
		f.Name("name"),
	)
}

func (v v01Tests) searchReads(ctx context.Context, r *compliance.Runner) {
	region := v.fx.Reads
	result := v.api.post(ctx, r, apimodel.PathReadsetsSearch, apimodel.SearchReadsetsRequest{
		DatasetIDs: []string{r.DatasetID()},
		Name:       region.SampleName,
	})
	readset := f.AssertArrayObject(r, result, "readsets", "",
		f.Literal("name", ldvalue.String(region.SampleName)),
	)
	readsetID := readset.GetByKey("id").StringValue()

	result = v.api.post(ctx, r, apimodel.PathReadsSearch, apimodel.SearchReadsV01Request{
		ReadsetIDs:    []string{readsetID},
		SequenceName:  region.ReferenceName,
		SequenceStart: region.Start,
		SequenceEnd:   region.End,
	})
	read := f.AssertArrayObject(r, result, "reads", "",
		f.Name("id"),
		f.Name("name"),
		f.Literal("readsetId", ldvalue.String(readsetID)),
		f.Typed("flags", f.Int),
		f.Literal("referenceSequenceName", ldvalue.String(region.ReferenceName)),
		f.Typed("position", f.Int),
		f.Typed("mappingQuality", f.Int),
		f.Name("cigar"),
		f.Name("mateReferenceSequenceName"),
		f.Typed("matePosition", f.Int),
		f.Typed("templateLength", f.Int),
		f.Name("originalBases"),
		f.Name("alignedBases"),
		f.Name("baseQuality"),
	)
	r.Assert(isTagMap(read.GetByKey("tags")), "Field reads.tags is a map from string to array of strings")
}

// isTagMap returns true if tags maps each key to an array whose first element is a string. Absent
// tags pass.
func isTagMap(tags ldvalue.Value) bool {
	switch tags.Type() {
	case ldvalue.NullType:
		return true
	case ldvalue.ObjectType:
		for _, values := range tags.AsValueMap().AsMap() {
			if values.Type() != ldvalue.ArrayType || !values.GetByIndex(0).IsString() {
				return false
			}
		}
		return true
	default:
		return false
	}
}
