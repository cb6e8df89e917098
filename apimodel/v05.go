package apimodel

// Paging is included in every v0.5 search request.
type Paging struct {
	PageSize  int    `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type SearchReferenceSetsRequest struct {
	MD5Checksums []string `json:"md5checksums,omitempty"`
	Accessions   []string `json:"accessions,omitempty"`
	AssemblyID   string   `json:"assemblyId,omitempty"`
	Paging
}

type SearchReferencesRequest struct {
	ReferenceSetID string   `json:"referenceSetId,omitempty"`
	MD5Checksums   []string `json:"md5checksums,omitempty"`
	Accessions     []string `json:"accessions,omitempty"`
	Paging
}

type SearchReadGroupSetsRequest struct {
	DatasetIDs []string `json:"datasetIds"`
	Name       string   `json:"name,omitempty"`
	Paging
}

type SearchReadsRequest struct {
	ReadGroupIDs  []string `json:"readGroupIds"`
	ReferenceID   string   `json:"referenceId,omitempty"`
	ReferenceName string   `json:"referenceName,omitempty"`
	Start         int64    `json:"start"`
	End           int64    `json:"end"`
	Paging
}

type SearchVariantSetsRequest struct {
	DatasetIDs []string `json:"datasetIds"`
	Paging
}

type SearchVariantsRequest struct {
	VariantSetIDs []string `json:"variantSetIds"`
	VariantName   string   `json:"variantName,omitempty"`
	CallSetIDs    []string `json:"callSetIds,omitempty"`
	ReferenceName string   `json:"referenceName"`
	Start         int64    `json:"start"`
	End           int64    `json:"end"`
	Paging
}

type SearchCallSetsRequest struct {
	VariantSetIDs []string `json:"variantSetIds"`
	Name          string   `json:"name,omitempty"`
	Paging
}
