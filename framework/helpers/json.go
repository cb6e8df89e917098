package helpers

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CanonicalizedJSONString reformats a JSON value so that object properties are alphabetized,
// making it easier for a human reader to find a property.
func CanonicalizedJSONString(value ldvalue.Value) string {
	switch value.Type() {
	case ldvalue.ArrayType:
		items := make([]string, 0, value.Count())
		for i := 0; i < value.Count(); i++ {
			items = append(items, CanonicalizedJSONString(value.GetByIndex(i)))
		}
		return "[" + strings.Join(items, ",") + "]"
	case ldvalue.ObjectType:
		props := value.AsValueMap().AsMap()
		keys := maps.Keys(props)
		slices.Sort(keys)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, ldvalue.String(k).JSONString()+":"+CanonicalizedJSONString(props[k]))
		}
		return "{" + strings.Join(items, ",") + "}"
	default:
		return value.JSONString()
	}
}

// IndentedJSONString is CanonicalizedJSONString with each line prefixed by prefix and nested
// values indented by two spaces.
func IndentedJSONString(value ldvalue.Value, prefix string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(CanonicalizedJSONString(value)), prefix, "  "); err != nil {
		return prefix + value.JSONString()
	}
	return prefix + buf.String()
}

// Pluck returns the string value of the named property of every object in a JSON array. Elements
// that are not objects, or whose property is not a string, are left out.
func Pluck(array ldvalue.Value, key string) []string {
	var ret []string
	for i := 0; i < array.Count(); i++ {
		if item := array.GetByIndex(i).GetByKey(key); item.IsString() {
			ret = append(ret, item.StringValue())
		}
	}
	return ret
}
