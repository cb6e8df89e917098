package apimodel

import "net/url"

const (
	PathReferenceSetsSearch = "/referencesets/search"
	PathReferencesSearch    = "/references/search"
	PathReadGroupSetsSearch = "/readgroupsets/search"
	PathReadsSearch         = "/reads/search"
	PathVariantSetsSearch   = "/variantsets/search"
	PathVariantsSearch      = "/variants/search"
	PathCallSetsSearch      = "/callsets/search"

	// v0.1 only
	PathReadsetsSearch = "/readsets/search"
)

// NextPageTokenProperty is the property of a search response that holds the token for the next
// page of results, if any.
const NextPageTokenProperty = "nextPageToken"

// ReferenceSetPath returns the path for getting a single reference set.
func ReferenceSetPath(id string) string {
	return "/referencesets/" + url.PathEscape(id)
}

// ReferencePath returns the path for getting a single reference.
func ReferencePath(id string) string {
	return "/references/" + url.PathEscape(id)
}

// ReferenceBasesPath returns the path for listing the bases of a reference. The range is given
// by the query parameters "start" and "end".
func ReferenceBasesPath(id string) string {
	return ReferencePath(id) + "/bases"
}
