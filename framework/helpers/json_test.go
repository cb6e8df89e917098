package helpers

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizedJSONString(t *testing.T) {
	value := ldvalue.Parse([]byte(`{"b": [3, {"z": 1, "a": null}], "a": "x\"y", "c": {}}`))
	assert.Equal(t, `{"a":"x\"y","b":[3,{"a":null,"z":1}],"c":{}}`, CanonicalizedJSONString(value))
	assert.Equal(t, `true`, CanonicalizedJSONString(ldvalue.Bool(true)))
}

func TestIndentedJSONString(t *testing.T) {
	value := ldvalue.Parse([]byte(`{"b": [1], "a": 2}`))
	assert.Equal(t, "  {\n    \"a\": 2,\n    \"b\": [\n      1\n    ]\n  }", IndentedJSONString(value, "  "))
}

func TestPluck(t *testing.T) {
	array := ldvalue.Parse([]byte(`[{"id": "a"}, {"id": 2}, "x", {"name": "c"}, {"id": "d"}]`))
	assert.Equal(t, []string{"a", "d"}, Pluck(array, "id"))
	assert.Nil(t, Pluck(ldvalue.Null(), "id"))
}
