// Package fields implements the declarative field-expectation DSL used by compliance tests.
//
// A Spec names one field of a JSON object and says what it should look like: a primitive type
// (see TypeTag) or a literal value. AssertFields applies a list of specs to one object, and
// AssertArrayObject does the same for the first element of a named collection after checking
// that the collection is non-empty.
//
// Missing fields are never failures. Without required/optional metadata the checker cannot tell
// an omitted optional field from a missing required one, so an absent field is recorded as a
// passing "can't be tested" assertion; only a field that is present with the wrong shape fails.
package fields
