package fields

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Recorder receives assertion results. It is implemented by compliance.Runner.
type Recorder interface {
	// Assert records one assertion, which failed if ok is false, and returns true if it failed.
	Assert(ok bool, message string) bool
}

// MissingMessage is the message recorded for a field that is absent from the response.
func MissingMessage(fieldName string) string {
	return "Field " + fieldName + " is missing and can't be tested"
}

// Lookup returns the named property of a JSON object, and whether it was present. A property whose
// value is null is present. If object is not a JSON object, nothing is present.
func Lookup(object ldvalue.Value, name string) (ldvalue.Value, bool) {
	if object.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), false
	}
	return object.TryGetByKey(name)
}

// AssertField records exactly one assertion about a single field value. If the field is not
// present, the assertion passes. Otherwise it fails if the value does not satisfy the Spec. The
// return value is true if the assertion failed.
func AssertField(r Recorder, value ldvalue.Value, present bool, fieldName string, spec Spec) bool {
	if !present {
		return r.Assert(true, MissingMessage(fieldName))
	}
	return r.Assert(spec.Matches(value), "Field "+fieldName+" is "+spec.Expectation())
}

// AssertFields records one assertion per Spec, in order, for the fields of object. Each field is
// reported as prefix followed by its name.
func AssertFields(r Recorder, object ldvalue.Value, prefix string, specs ...Spec) {
	for _, spec := range specs {
		value, present := Lookup(object, spec.FieldName())
		AssertField(r, value, present, prefix+spec.FieldName(), spec)
	}
}

// AssertArrayObject checks that parent[collection] is a non-empty array, then applies the specs to
// its first element. The non-empty check always records an assertion that fails if the collection
// is missing, empty, or not an array. If there is no first element, the specs are applied to an
// empty object instead, so each of them records a passing "missing" assertion rather than a
// cascade of failures.
//
// The return value is the first element, or an empty object, so that callers can go on to inspect
// nested structures.
func AssertArrayObject(r Recorder, parent ldvalue.Value, collection, prefix string, specs ...Spec) ldvalue.Value {
	items, _ := Lookup(parent, collection)
	field := prefix + collection
	isNonEmptyArray := items.Type() == ldvalue.ArrayType && items.Count() > 0
	r.Assert(isNonEmptyArray, "Field "+field+" is non-empty")

	first := ldvalue.ObjectBuild().Build()
	if isNonEmptyArray {
		first = items.GetByIndex(0)
	}
	AssertFields(r, first, field+".", specs...)
	return first
}

// First returns the first element of parent[collection] if that is a non-empty array, or an empty
// object otherwise. It records nothing.
func First(parent ldvalue.Value, collection string) ldvalue.Value {
	items, _ := Lookup(parent, collection)
	if items.Type() == ldvalue.ArrayType && items.Count() > 0 {
		return items.GetByIndex(0)
	}
	return ldvalue.ObjectBuild().Build()
}
