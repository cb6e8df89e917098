package suites

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/data"
	"github.com/ga4gh/compliance-harness/framework/compliance"
	f "github.com/ga4gh/compliance-harness/framework/fields"
	"github.com/ga4gh/compliance-harness/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const v05DocURLPrefix = "http://ga4gh.org/documentation/api/v0.5/ga4gh_api.html#/schema/"

// maxPages stops a paging test from following a server that never stops returning page tokens.
const maxPages = 100

func registerV05Tests(registry *compliance.Registry, api apiCaller, fx data.Fixtures) {
	v := v05Tests{api: api, fx: fx}
	registry.Register(
		"Reference Sets",
		fmt.Sprintf("Searches for reference set %s by accession (%s) and then fetches that same reference set by ID",
			fx.ReferenceSets.AssemblyID, fx.ReferenceSets.Accession),
		v05DocURLPrefix+"org.ga4gh.searchReferenceSets",
		v.referenceSets,
	)
	registry.Register(
		"References",
		"Searches for a reference by MD5 checksum and then fetches that same reference by ID",
		v05DocURLPrefix+"org.ga4gh.searchReferences",
		v.references,
	)
	registry.Register(
		"Reference bases",
		fmt.Sprintf("Searches for a reference by MD5 checksum and then fetches %d bases for that reference at offset %d",
			fx.Bases.End-fx.Bases.Start, fx.Bases.Start),
		v05DocURLPrefix+"org.ga4gh.getReferenceBases",
		v.referenceBases,
	)
	registry.Register(
		"Search Read Group Sets",
		"Fetches read group sets from the specified dataset",
		v05DocURLPrefix+"org.ga4gh.searchReadGroupSets",
		v.searchReadGroupSets,
	)
	registry.Register(
		"Search Reads",
		fmt.Sprintf("Looks up a read group set for %s from the specified dataset, then fetches reads.",
			fx.Reads.SampleName),
		v05DocURLPrefix+"org.ga4gh.searchReads",
		v.searchReads,
	)
	registry.Register(
		"Search Variant Sets",
		"Fetches variant sets from the specified dataset.",
		v05DocURLPrefix+"org.ga4gh.searchVariantSets",
		v.searchVariantSets,
	)
	registry.Register(
		"Search Variants",
		"Fetches variants from the specified dataset.",
		v05DocURLPrefix+"org.ga4gh.searchVariants",
		v.searchVariants,
	)
	registry.Register(
		"Search Call Sets",
		"Fetches call sets from the specified dataset.",
		v05DocURLPrefix+"org.ga4gh.searchCallSets",
		v.searchCallSets,
	)
	registry.Register(
		"Reference paging",
		"Pages through the references of a reference set one at a time by following nextPageToken",
		v05DocURLPrefix+"org.ga4gh.searchReferences",
		v.referencePaging,
	)
}

type v05Tests struct {
	api apiCaller
	fx  data.Fixtures
}

func onePage() apimodel.Paging {
	return apimodel.Paging{PageSize: 1}
}

func (v v05Tests) referenceSets(ctx context.Context, r *compliance.Runner) {
	result := v.api.post(ctx, r, apimodel.PathReferenceSetsSearch, apimodel.SearchReferenceSetsRequest{
		Accessions: []string{v.fx.ReferenceSets.Accession},
		Paging:     onePage(),
	})
	referenceSet := f.AssertArrayObject(r, result, "referenceSets", "",
		f.Name("id"),
		f.Typed("referenceIds", f.Array),
		f.Name("md5checksum"),
		f.Literal("ncbiTaxonId", ldvalue.Int(v.fx.ReferenceSets.NCBITaxonID)),
		f.Name("description"),
		f.Literal("assemblyId", ldvalue.String(v.fx.ReferenceSets.AssemblyID)),
		f.Name("sourceURI"),
		f.Typed("sourceAccessions", f.Array),
		f.Typed("isDerived", f.Boolean),
	)

	// The structure was checked above; this only makes sure that the get method works.
	v.assertFetchedByID(ctx, r, referenceSet, apimodel.ReferenceSetPath, "Get reference set returned a valid result")
}

// assertFetchedByID gets the object with the same ID as found, and asserts that it has that ID.
// If the search found nothing there is no ID to get, so the assertion fails without a request.
func (v v05Tests) assertFetchedByID(
	ctx context.Context,
	r *compliance.Runner,
	found ldvalue.Value,
	path func(id string) string,
	message string,
) {
	id := found.GetByKey("id").StringValue()
	if id == "" {
		r.Assert(false, message)
		return
	}
	fetched := v.api.get(ctx, r, path(id), nil)
	r.Assert(fetched.GetByKey("id").StringValue() == id, message)
}

func (v v05Tests) searchReferenceByMD5(ctx context.Context, r *compliance.Runner) ldvalue.Value {
	return v.api.post(ctx, r, apimodel.PathReferencesSearch, apimodel.SearchReferencesRequest{
		MD5Checksums: []string{v.fx.References.MD5Checksum},
		Paging:       onePage(),
	})
}

func (v v05Tests) references(ctx context.Context, r *compliance.Runner) {
	result := v.searchReferenceByMD5(ctx, r)
	reference := f.AssertArrayObject(r, result, "references", "",
		f.Name("id"),
		f.Literal("length", ldvalue.String(strconv.FormatInt(v.fx.References.Length, 10))),
		f.Literal("md5checksum", ldvalue.String(v.fx.References.MD5Checksum)),
		f.Name("name"),
		f.Name("sourceURI"),
		f.Typed("sourceAccessions", f.Array),
		f.Typed("isDerived", f.Boolean),
		f.Typed("sourceDivergence", f.String),
		f.Literal("ncbiTaxonId", ldvalue.Int(v.fx.References.NCBITaxonID)),
	)

	v.assertFetchedByID(ctx, r, reference, apimodel.ReferencePath, "Get reference returned a valid result")
}

func (v v05Tests) referenceBases(ctx context.Context, r *compliance.Runner) {
	result := v.searchReferenceByMD5(ctx, r)
	id := f.First(result, "references").GetByKey("id").StringValue()

	bases := v.api.get(ctx, r, apimodel.ReferenceBasesPath(id), url.Values{
		"start": {strconv.FormatInt(v.fx.Bases.Start, 10)},
		"end":   {strconv.FormatInt(v.fx.Bases.End, 10)},
	})
	f.AssertFields(r, bases, "",
		f.Literal("offset", ldvalue.String(strconv.FormatInt(v.fx.Bases.Start, 10))),
		f.Literal("sequence", ldvalue.String(v.fx.Bases.Sequence)),
	)
}

func (v v05Tests) searchReadGroupSets(ctx context.Context, r *compliance.Runner) {
	datasetID := ldvalue.String(r.DatasetID())
	result := v.api.post(ctx, r, apimodel.PathReadGroupSetsSearch, apimodel.SearchReadGroupSetsRequest{
		DatasetIDs: []string{r.DatasetID()},
	})
	readGroupSet := f.AssertArrayObject(r, result, "readGroupSets", "",
		f.Name("id"),
		f.Literal("datasetId", datasetID),
		f.Name("name"),
	)

	prefix := "readGroupSets."
	readGroup := f.AssertArrayObject(r, readGroupSet, "readGroups", prefix,
		f.Name("id"),
		f.Literal("datasetId", datasetID),
		f.Name("name"),
		f.Name("description"),
		f.Name("sampleId"),
		f.Typed("predictedInsertSize", f.Int),
		f.Typed("created", f.Date),
		f.Typed("updated", f.Date),
		f.Name("referenceSetId"),
		f.Typed("info", f.KeyValue),
	)

	prefix += "readGroups."
	f.AssertFields(r, readGroup.GetByKey("experiment"), prefix+"experiment.",
		f.Name("libraryId"),
		f.Name("platformUnit"),
		f.Name("sequencingCenter"),
		f.Name("instrumentModel"),
	)
	f.AssertArrayObject(r, readGroup, "programs", prefix,
		f.Name("commandLine"),
		f.Name("id"),
		f.Name("name"),
		f.Name("prevProgramId"),
		f.Name("version"),
	)
}

func (v v05Tests) searchReads(ctx context.Context, r *compliance.Runner) {
	region := v.fx.Reads
	result := v.api.post(ctx, r, apimodel.PathReadGroupSetsSearch, apimodel.SearchReadGroupSetsRequest{
		DatasetIDs: []string{r.DatasetID()},
		Name:       region.SampleName,
		Paging:     onePage(),
	})
	readGroupSet := f.AssertArrayObject(r, result, "readGroupSets", "",
		f.Literal("name", ldvalue.String(region.SampleName)),
	)
	readGroupIDs := helpers.Pluck(readGroupSet.GetByKey("readGroups"), "id")

	result = v.api.post(ctx, r, apimodel.PathReadsSearch, apimodel.SearchReadsRequest{
		ReadGroupIDs:  nonNil(readGroupIDs),
		ReferenceName: region.ReferenceName,
		Start:         region.Start,
		End:           region.End,
	})
	alignment := f.AssertArrayObject(r, result, "alignments", "",
		f.Name("id"),
		f.Name("readGroupId"),
		f.Name("fragmentName"),
		f.Typed("properPlacement", f.Boolean),
		f.Typed("duplicateFragment", f.Boolean),
		f.Typed("numberReads", f.Int),
		f.Typed("fragmentLength", f.Int),
		f.Typed("readNumber", f.Int),
		f.Typed("failedVendorQualityChecks", f.Boolean),
		f.Typed("secondaryAlignment", f.Boolean),
		f.Typed("supplementaryAlignment", f.Boolean),
		f.Name("alignedSequence"),
		f.Typed("alignedQuality", f.Array),
		f.Typed("info", f.KeyValue),
	)

	referenceName := ldvalue.String(region.ReferenceName)
	prefix := "alignments."
	f.AssertFields(r, alignment.GetByKey("nextMatePosition"), prefix+"nextMatePosition.",
		f.Literal("referenceName", referenceName),
		f.Name("position"),
		f.Typed("reverseStrand", f.Boolean),
	)

	linearAlignment := alignment.GetByKey("alignment")
	prefix += "alignment."
	f.AssertFields(r, linearAlignment.GetByKey("position"), prefix+"position.",
		f.Literal("referenceName", referenceName),
		f.Name("position"),
		f.Typed("reverseStrand", f.Boolean),
	)
	f.AssertFields(r, linearAlignment, prefix,
		f.Typed("mappingQuality", f.Int),
	)
	f.AssertArrayObject(r, linearAlignment, "cigar", prefix,
		f.Name("operation"),
		f.Typed("operationLength", f.Long),
		f.Name("referenceSequence"),
	)
}

func (v v05Tests) searchVariantSetsInDataset(ctx context.Context, r *compliance.Runner) ldvalue.Value {
	return v.api.post(ctx, r, apimodel.PathVariantSetsSearch, apimodel.SearchVariantSetsRequest{
		DatasetIDs: []string{r.DatasetID()},
	})
}

// firstVariantSetID looks up the variant set that the variant and call set searches are scoped to.
func (v v05Tests) firstVariantSetID(ctx context.Context, r *compliance.Runner) string {
	result := v.searchVariantSetsInDataset(ctx, r)
	return f.First(result, "variantSets").GetByKey("id").StringValue()
}

func (v v05Tests) searchVariantSets(ctx context.Context, r *compliance.Runner) {
	result := v.searchVariantSetsInDataset(ctx, r)
	variantSet := f.AssertArrayObject(r, result, "variantSets", "",
		f.Name("id"),
		f.Name("datasetId"),
	)
	f.AssertArrayObject(r, variantSet, "metadata", "variantSets.",
		f.Name("key"),
		f.Name("value"),
		f.Name("id"),
		f.Name("type"),
		f.Name("number"),
		f.Name("description"),
		f.Typed("info", f.KeyValue),
	)
}

func (v v05Tests) searchVariants(ctx context.Context, r *compliance.Runner) {
	variantSetID := v.firstVariantSetID(ctx, r)
	region := v.fx.Variants
	result := v.api.post(ctx, r, apimodel.PathVariantsSearch, apimodel.SearchVariantsRequest{
		VariantSetIDs: []string{variantSetID},
		ReferenceName: region.ReferenceName,
		Start:         region.Start,
		End:           region.End,
		Paging:        onePage(),
	})
	variant := f.AssertArrayObject(r, result, "variants", "",
		f.Name("id"),
		f.Literal("variantSetId", ldvalue.String(variantSetID)),
		f.Typed("names", f.Array),
		f.Typed("created", f.Date),
		f.Typed("updated", f.Date),
		f.Literal("referenceName", ldvalue.String(region.ReferenceName)),
		f.Typed("start", f.Long),
		f.Typed("end", f.Long),
		f.Name("referenceBases"),
		f.Typed("alternateBases", f.Array),
		f.Typed("info", f.KeyValue),
	)
	f.AssertArrayObject(r, variant, "calls", "variants.",
		f.Name("callSetId"),
		f.Name("callSetName"),
		f.Typed("genotype", f.Array),
		f.Name("phaseset"),
		f.Typed("genotypeLikelihood", f.Array),
		f.Typed("info", f.KeyValue),
	)
}

func (v v05Tests) searchCallSets(ctx context.Context, r *compliance.Runner) {
	variantSetID := v.firstVariantSetID(ctx, r)
	result := v.api.post(ctx, r, apimodel.PathCallSetsSearch, apimodel.SearchCallSetsRequest{
		VariantSetIDs: []string{variantSetID},
	})
	f.AssertArrayObject(r, result, "callSets", "",
		f.Name("id"),
		f.Name("name"),
		f.Name("sampleId"),
		f.Typed("variantSetIds", f.Array),
		f.Typed("created", f.Date),
		f.Typed("updated", f.Date),
		f.Typed("info", f.KeyValue),
	)
}

// referencePaging requests the references of the reference set found by accession with a page
// size of 1, and checks that following the page tokens visits each of its references once.
func (v v05Tests) referencePaging(ctx context.Context, r *compliance.Runner) {
	result := v.api.post(ctx, r, apimodel.PathReferenceSetsSearch, apimodel.SearchReferenceSetsRequest{
		Accessions: []string{v.fx.ReferenceSets.Accession},
		Paging:     onePage(),
	})
	referenceSet := f.AssertArrayObject(r, result, "referenceSets", "",
		f.Typed("referenceIds", f.Array),
	)
	seen := make(map[string]int)
	pageSizeRespected, terminated := true, false
	token := ""
	for page := 0; page < maxPages && ctx.Err() == nil; page++ {
		result = v.api.post(ctx, r, apimodel.PathReferencesSearch, apimodel.SearchReferencesRequest{
			ReferenceSetID: referenceSet.GetByKey("id").StringValue(),
			Paging:         apimodel.Paging{PageSize: 1, PageToken: token},
		})
		references := result.GetByKey("references")
		if references.Count() > 1 {
			pageSizeRespected = false
		}
		for i := 0; i < references.Count(); i++ {
			seen[references.GetByIndex(i).GetByKey("id").StringValue()]++
		}
		next := result.GetByKey(apimodel.NextPageTokenProperty)
		if !next.IsString() || next.StringValue() == "" {
			terminated = true
			break
		}
		token = next.StringValue()
	}

	r.Assert(pageSizeRespected, "Each page of references has at most 1 result")
	r.Assert(terminated, fmt.Sprintf("Paging through references ends within %d pages", maxPages))
	duplicates := false
	for _, n := range seen {
		duplicates = duplicates || n > 1
	}
	r.Assert(!duplicates, "No reference is returned on more than one page")
	complete := true
	for _, id := range stringsOf(referenceSet.GetByKey("referenceIds")) {
		complete = complete && seen[id] > 0
	}
	r.Assert(complete, "Paging through references returns every reference in the reference set")
}
