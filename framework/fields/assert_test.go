package fields

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAssertion struct {
	message string
	warning bool
}

type assertionRecorder struct {
	assertions []recordedAssertion
}

func (a *assertionRecorder) Assert(ok bool, message string) bool {
	a.assertions = append(a.assertions, recordedAssertion{message: message, warning: !ok})
	return !ok
}

func parse(t *testing.T, s string) ldvalue.Value {
	value := ldvalue.Parse([]byte(s))
	require.False(t, value.IsNull(), "bad test JSON: %s", s)
	return value
}

func TestPresentStringField(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, parse(t, `{"fieldX": "abc"}`), "", Name("fieldX"))
	assert.Equal(t, []recordedAssertion{{"Field fieldX is a string", false}}, r.assertions)
}

func TestFieldWithWrongType(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, parse(t, `{"fieldX": 123}`), "", Name("fieldX"))
	assert.Equal(t, []recordedAssertion{{"Field fieldX is a string", true}}, r.assertions)
}

func TestMissingFieldPasses(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, parse(t, `{}`), "", Name("fieldX"))
	assert.Equal(t, []recordedAssertion{{"Field fieldX is missing and can't be tested", false}}, r.assertions)
}

func TestMissingFieldPassesForEveryKindOfSpec(t *testing.T) {
	specs := []Spec{
		Name("a"), Typed("b", Int), Typed("c", Long), Typed("d", Boolean), Typed("e", Array),
		Typed("f", KeyValue), Typed("g", Date), Literal("h", ldvalue.Int(9606)),
	}
	var r assertionRecorder
	AssertFields(&r, parse(t, `{"other": 1}`), "p.", specs...)
	require.Len(t, r.assertions, len(specs))
	for i, a := range r.assertions {
		assert.False(t, a.warning)
		assert.Equal(t, MissingMessage("p."+specs[i].FieldName()), a.message)
	}
}

func TestNullFieldIsPresent(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, parse(t, `{"x": null}`), "", Name("x"))
	assert.Equal(t, []recordedAssertion{{"Field x is a string", true}}, r.assertions)
}

func TestFieldsAreEvaluatedInOrderWithPrefix(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, parse(t, `{"id": "x", "size": 3, "ok": "yes"}`), "things.",
		Name("id"), Typed("size", Int), Typed("ok", Boolean))
	assert.Equal(t, []recordedAssertion{
		{"Field things.id is a string", false},
		{"Field things.size is a int", false},
		{"Field things.ok is a boolean", true},
	}, r.assertions)
}

func TestLiteralFieldMessages(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, parse(t, `{"ncbiTaxonId": 9606, "assemblyId": "GRCh37"}`), "",
		Literal("ncbiTaxonId", ldvalue.Int(9606)), Literal("assemblyId", ldvalue.String("GRCh38")))
	assert.Equal(t, []recordedAssertion{
		{"Field ncbiTaxonId is equal to 9606", false},
		{`Field assemblyId is equal to "GRCh38"`, true},
	}, r.assertions)
}

func TestFieldsOfNonObjectAreMissing(t *testing.T) {
	var r assertionRecorder
	AssertFields(&r, ldvalue.String("not an object"), "", Name("id"))
	assert.Equal(t, []recordedAssertion{{MissingMessage("id"), false}}, r.assertions)
}

func TestArrayObjectWithEmptyCollection(t *testing.T) {
	var r assertionRecorder
	first := AssertArrayObject(&r, parse(t, `{"items": []}`), "items", "", Name("id"))
	assert.Equal(t, []recordedAssertion{
		{"Field items is non-empty", true},
		{"Field items.id is missing and can't be tested", false},
	}, r.assertions)
	assert.Equal(t, ldvalue.ObjectType, first.Type())
	assert.Equal(t, 0, first.Count())
}

func TestArrayObjectWithAbsentCollection(t *testing.T) {
	var r assertionRecorder
	AssertArrayObject(&r, parse(t, `{}`), "items", "outer.", Name("id"), Typed("n", Int))
	assert.Equal(t, []recordedAssertion{
		{"Field outer.items is non-empty", true},
		{"Field outer.items.id is missing and can't be tested", false},
		{"Field outer.items.n is missing and can't be tested", false},
	}, r.assertions)
}

func TestArrayObjectWithNonArrayCollection(t *testing.T) {
	var r assertionRecorder
	AssertArrayObject(&r, parse(t, `{"items": "abc"}`), "items", "", Name("id"))
	assert.Equal(t, []recordedAssertion{
		{"Field items is non-empty", true},
		{"Field items.id is missing and can't be tested", false},
	}, r.assertions)
}

func TestArrayObjectInspectsOnlyFirstElement(t *testing.T) {
	var r assertionRecorder
	first := AssertArrayObject(&r, parse(t, `{"items": [{"id": "a"}, {"id": 2}]}`), "items", "", Name("id"))
	assert.Equal(t, []recordedAssertion{
		{"Field items is non-empty", false},
		{"Field items.id is a string", false},
	}, r.assertions)
	assert.Equal(t, "a", first.GetByKey("id").StringValue())
}

func TestFirst(t *testing.T) {
	assert.Equal(t, "a", First(parse(t, `{"xs": [{"id": "a"}]}`), "xs").GetByKey("id").StringValue())
	assert.Equal(t, 0, First(parse(t, `{"xs": []}`), "xs").Count())
	assert.Equal(t, ldvalue.ObjectType, First(ldvalue.Null(), "xs").Type())
}

func TestAssertFieldReturnsWarning(t *testing.T) {
	var r assertionRecorder
	assert.False(t, AssertField(&r, ldvalue.Null(), false, "x", Typed("x", Int)))
	assert.True(t, AssertField(&r, ldvalue.String("1"), true, "x", Typed("x", Int)))
	assert.False(t, AssertField(&r, ldvalue.Int(1), true, "x", Typed("x", Int)))
}
