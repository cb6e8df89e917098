package data

import (
	"fmt"
	"os"
)

// Fixtures are the well-known values that the built-in test suites search for. A server under test
// must hold data matching them for the searches to return anything. They can be overridden with
// a file in the same format as data-files/fixtures/*.yaml.
type Fixtures struct {
	ReferenceSets ReferenceSetFixtures `json:"referenceSets"`
	References    ReferenceFixtures    `json:"references"`
	Bases         BasesFixtures        `json:"bases"`
	Reads         RegionFixtures       `json:"reads"`
	Variants      RegionFixtures       `json:"variants"`
}

type ReferenceSetFixtures struct {
	Accession   string `json:"accession"`
	AssemblyID  string `json:"assemblyId"`
	NCBITaxonID int    `json:"ncbiTaxonId"`
}

type ReferenceFixtures struct {
	MD5Checksum string `json:"md5checksum"`
	Length      int64  `json:"length"`
	NCBITaxonID int    `json:"ncbiTaxonId"`
}

// BasesFixtures describe a range of a reference, identified by ReferenceFixtures.MD5Checksum, and
// the bases it should contain.
type BasesFixtures struct {
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Sequence string `json:"sequence"`
}

// RegionFixtures describe a genomic region to search, and for read searches, the name of the
// sample whose reads are searched.
type RegionFixtures struct {
	SampleName    string `json:"sampleName,omitempty"`
	ReferenceName string `json:"referenceName"`
	Start         int64  `json:"start"`
	End           int64  `json:"end"`
}

// LoadFixtures returns the built-in fixtures for an API version such as "v0.5".
func LoadFixtures(version string) (Fixtures, error) {
	var f Fixtures
	sources, err := LoadDataFile("fixtures/" + version + ".yaml")
	if err != nil {
		return f, fmt.Errorf("no fixtures for API version %q: %w", version, err)
	}
	for _, s := range sources {
		if err := s.ParseInto(&f); err != nil {
			return f, err
		}
	}
	return f, nil
}

// ApplyFixturesFile overrides fixtures with the values from a YAML or JSON file. Properties that
// are not in the file keep their current values, and properties that are not fixtures are errors.
func (f *Fixtures) ApplyFixturesFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to read fixtures file: %w", err)
	}
	if err := ParseJSONOrYAMLStrict(data, f); err != nil {
		return fmt.Errorf("error parsing fixtures file %q: %w", path, err)
	}
	return nil
}
