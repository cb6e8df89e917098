package apimodel

type SearchReadsetsRequest struct {
	DatasetIDs []string `json:"datasetIds"`
	Name       string   `json:"name,omitempty"`
	Paging
}

// SearchReadsV01Request is the reads search of v0.1, which selects reads by readset and uses
// "sequence" where later versions use "reference".
type SearchReadsV01Request struct {
	ReadsetIDs    []string `json:"readsetIds"`
	SequenceName  string   `json:"sequenceName"`
	SequenceStart int64    `json:"sequenceStart"`
	SequenceEnd   int64    `json:"sequenceEnd"`
	Paging
}
