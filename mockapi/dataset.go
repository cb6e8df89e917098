package mockapi

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// DatasetID is the ID of the dataset that the canned data belongs to.
const DatasetID = "compliance-dataset"

//go:embed data
var dataFiles embed.FS //nolint:gochecknoglobals

// Dataset is the content served by a Service. Records are kept as raw JSON values so that a test
// can serve deliberately malformed data.
type Dataset struct {
	ReferenceSets []ldvalue.Value `json:"referenceSets"`
	References    []ldvalue.Value `json:"references"`
	Bases         []BasesWindow   `json:"bases"`
	ReadGroupSets []ldvalue.Value `json:"readGroupSets"`
	Alignments    []ldvalue.Value `json:"alignments"`
	VariantSets   []ldvalue.Value `json:"variantSets"`
	Variants      []ldvalue.Value `json:"variants"`
	CallSets      []ldvalue.Value `json:"callSets"`

	// v0.1 only
	Readsets []ldvalue.Value `json:"readsets"`
	Reads    []ldvalue.Value `json:"reads"`
}

// BasesWindow is the part of a reference's sequence that the mock knows. Requests for bases
// outside of it are rejected.
type BasesWindow struct {
	ReferenceID string `json:"referenceId"`
	Offset      int64  `json:"offset"`
	Sequence    string `json:"sequence"`
}

// LoadDataset returns the canned dataset for an API version such as "v0.5".
func LoadDataset(version string) (Dataset, error) {
	data, err := dataFiles.ReadFile("data/" + version + ".json")
	if err != nil {
		return Dataset{}, fmt.Errorf("no mock dataset for API version %q: %w", version, err)
	}
	return ParseDataset(data)
}

// ParseDataset parses a dataset in the same format as the embedded ones.
func ParseDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return ds, fmt.Errorf("invalid mock dataset: %w", err)
	}
	return ds, nil
}

func (b BasesWindow) end() int64 {
	return b.Offset + int64(len(b.Sequence))
}
