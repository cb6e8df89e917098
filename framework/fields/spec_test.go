package fields

import (
	"encoding/json"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecConstructors(t *testing.T) {
	s1 := Name("id")
	assert.Equal(t, "id", s1.FieldName())
	assert.Equal(t, String, s1.TypeTag())
	assert.False(t, s1.IsLiteral())
	assert.Equal(t, "a string", s1.Expectation())

	s2 := Typed("start", Long)
	assert.Equal(t, Long, s2.TypeTag())
	assert.Equal(t, "a long", s2.Expectation())
	assert.Equal(t, ldvalue.Null(), s2.LiteralValue())

	s3 := Literal("referenceName", ldvalue.String("22"))
	assert.True(t, s3.IsLiteral())
	assert.Equal(t, ldvalue.String("22"), s3.LiteralValue())
	assert.Equal(t, `equal to "22"`, s3.Expectation())
	assert.Equal(t, `referenceName (equal to "22")`, s3.String())
}

func TestParseTypeTag(t *testing.T) {
	for _, tag := range []TypeTag{String, Int, Long, Boolean, Array, KeyValue, Date} {
		parsed, ok := ParseTypeTag(tag.String())
		assert.True(t, ok)
		assert.Equal(t, tag, parsed)
	}
	_, ok := ParseTypeTag("float")
	assert.False(t, ok)
}

func TestSpecUnmarshal(t *testing.T) {
	var specs []Spec
	require.NoError(t, json.Unmarshal([]byte(`[
		"id",
		["length", "long"],
		["referenceName", "22"],
		["ncbiTaxonId", 9606],
		{"name": "info", "type": "keyvalue"},
		{"name": "datasetId", "equals": "ds1"},
		{"name": "plain"}
	]`), &specs))

	assert.Equal(t, []Spec{
		Name("id"),
		Typed("length", Long),
		Literal("referenceName", ldvalue.String("22")),
		Literal("ncbiTaxonId", ldvalue.Int(9606)),
		Typed("info", KeyValue),
		Literal("datasetId", ldvalue.String("ds1")),
		Name("plain"),
	}, specs)
}

func TestSpecUnmarshalErrors(t *testing.T) {
	for _, bad := range []string{
		`3`,
		`["only-name"]`,
		`[1, "long"]`,
		`{"type": "long"}`,
		`{"name": "x", "type": "float"}`,
		`{"name": "x", "type": "int", "equals": 3}`,
		`{"name": "x", "equal": 3}`,
	} {
		t.Run(bad, func(t *testing.T) {
			var s Spec
			assert.Error(t, json.Unmarshal([]byte(bad), &s))
		})
	}
}
