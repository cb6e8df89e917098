package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures("v0.5")
	require.NoError(t, err)
	assert.Equal(t, ReferenceSetFixtures{Accession: "GCA_000001405.15", AssemblyID: "GRCh38", NCBITaxonID: 9606},
		f.ReferenceSets)
	assert.Equal(t, ReferenceFixtures{MD5Checksum: "1b22b98cdeb4a9304cb5d48026a85128", Length: 249250621,
		NCBITaxonID: 9606}, f.References)
	assert.Equal(t, BasesFixtures{Start: 15000, End: 15010, Sequence: "ATCCGACATC"}, f.Bases)
	assert.Equal(t, RegionFixtures{SampleName: "NA12878", ReferenceName: "22", Start: 51005353, End: 51005354},
		f.Reads)
	assert.Equal(t, RegionFixtures{ReferenceName: "22", Start: 51005353, End: 51015354}, f.Variants)

	f01, err := LoadFixtures("v0.1")
	require.NoError(t, err)
	assert.Equal(t, RegionFixtures{SampleName: "NA12878", ReferenceName: "22", Start: 51005354, End: 51005354},
		f01.Reads)

	_, err = LoadFixtures("v2")
	assert.Error(t, err)
}

func TestApplyFixturesFile(t *testing.T) {
	f, err := LoadFixtures("v0.5")
	require.NoError(t, err)

	path := writeTempFile(t, "fixtures.yaml", `---
reads:
  sampleName: HG00096
bases:
  sequence: GATTACA
`)
	require.NoError(t, f.ApplyFixturesFile(path))
	assert.Equal(t, "HG00096", f.Reads.SampleName)
	assert.Equal(t, "22", f.Reads.ReferenceName)
	assert.Equal(t, int64(51005353), f.Reads.Start)
	assert.Equal(t, "GATTACA", f.Bases.Sequence)
	assert.Equal(t, int64(15000), f.Bases.Start)
	assert.Equal(t, "GRCh38", f.ReferenceSets.AssemblyID)
}

func TestApplyFixturesFileErrors(t *testing.T) {
	var f Fixtures
	assert.Error(t, f.ApplyFixturesFile("/nonexistent/fixtures.yaml"))
	assert.Error(t, f.ApplyFixturesFile(writeTempFile(t, "bad.yaml", "reads: [1, 2")))
}

func TestApplyFixturesFileRejectsUnknownProperty(t *testing.T) {
	f, err := LoadFixtures("v0.5")
	require.NoError(t, err)

	path := writeTempFile(t, "fixtures.yaml", "reads:\n  sampleNmae: HG00096\n")
	err = f.ApplyFixturesFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "line 2, column 3")
	assert.Equal(t, "NA12878", f.Reads.SampleName)
}
