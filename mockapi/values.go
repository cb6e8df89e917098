package mockapi

import (
	"strconv"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/slices"
)

func filter(items []ldvalue.Value, include func(ldvalue.Value) bool) []ldvalue.Value {
	ret := make([]ldvalue.Value, 0, len(items))
	for _, item := range items {
		if include(item) {
			ret = append(ret, item)
		}
	}
	return ret
}

func findByID(items []ldvalue.Value, id string) (ldvalue.Value, bool) {
	for _, item := range items {
		if id != "" && stringProp(item, "id") == id {
			return item, true
		}
	}
	return ldvalue.Null(), false
}

func stringProp(v ldvalue.Value, name string) string {
	return v.GetByKey(name).StringValue()
}

// longProp reads an integer property that may be encoded either as a number or as a string.
func longProp(v ldvalue.Value, name string) (int64, bool) {
	prop := v.GetByKey(name)
	switch prop.Type() {
	case ldvalue.NumberType:
		return int64(prop.Float64Value()), true
	case ldvalue.StringType:
		n, err := strconv.ParseInt(prop.StringValue(), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func valuesOf(array ldvalue.Value) []ldvalue.Value {
	ret := make([]ldvalue.Value, 0, array.Count())
	for i := 0; i < array.Count(); i++ {
		ret = append(ret, array.GetByIndex(i))
	}
	return ret
}

// matchesAny is true if the filter list is empty or contains s.
func matchesAny(filter []string, s string) bool {
	return len(filter) == 0 || slices.Contains(filter, s)
}

// intersects is true if the filter list is empty or shares an element with a JSON string array.
func intersects(filter []string, array ldvalue.Value) bool {
	if len(filter) == 0 {
		return true
	}
	for _, v := range valuesOf(array) {
		if slices.Contains(filter, v.StringValue()) {
			return true
		}
	}
	return false
}

func withProperty(object ldvalue.Value, name string, value ldvalue.Value) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for k, v := range object.AsValueMap().AsMap() {
		b.Set(k, v)
	}
	return b.Set(name, value).Build()
}
