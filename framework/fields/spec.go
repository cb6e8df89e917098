package fields

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// TypeTag identifies the primitive shape a field is expected to have.
type TypeTag int

const (
	// String expects a JSON string. It is the default for a bare field name.
	String TypeTag = iota
	// Int expects a JSON number with no fractional part.
	Int
	// Long expects a value that parses as an integer. 64-bit integers are commonly encoded as
	// JSON strings, so a numeric-looking string passes as well as a number.
	Long
	// Boolean expects a JSON boolean.
	Boolean
	// Array expects a JSON array.
	Array
	// KeyValue expects a JSON object, that is, a mapping with string keys.
	KeyValue
	// Date expects a timestamp: epoch milliseconds as a number or integer string, or an RFC 3339
	// string.
	Date
)

var typeTagNames = map[TypeTag]string{ //nolint:gochecknoglobals
	String:   "string",
	Int:      "int",
	Long:     "long",
	Boolean:  "boolean",
	Array:    "array",
	KeyValue: "keyvalue",
	Date:     "date",
}

func (t TypeTag) String() string {
	if name, ok := typeTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TypeTag(%d)", int(t))
}

// ParseTypeTag returns the TypeTag with the given name, as produced by TypeTag.String.
func ParseTypeTag(name string) (TypeTag, bool) {
	for t, n := range typeTagNames {
		if n == name {
			return t, true
		}
	}
	return String, false
}

type specKind int

const (
	typedSpec specKind = iota
	literalSpec
)

// Spec is an immutable description of one expected field. Create it with Name, Typed, or Literal.
type Spec struct {
	name    string
	kind    specKind
	tag     TypeTag
	literal ldvalue.Value
}

// Name returns a Spec expecting the named field to be a string.
func Name(name string) Spec {
	return Spec{name: name, kind: typedSpec, tag: String}
}

// Typed returns a Spec expecting the named field to have the given primitive type.
func Typed(name string, tag TypeTag) Spec {
	return Spec{name: name, kind: typedSpec, tag: tag}
}

// Literal returns a Spec expecting the named field to be exactly equal to the given JSON value.
func Literal(name string, value ldvalue.Value) Spec {
	return Spec{name: name, kind: literalSpec, literal: value}
}

// FieldName returns the name of the field, without any prefix.
func (s Spec) FieldName() string { return s.name }

// IsLiteral returns true if the Spec was created with Literal.
func (s Spec) IsLiteral() bool { return s.kind == literalSpec }

// TypeTag returns the expected type. It is meaningless for a literal Spec.
func (s Spec) TypeTag() TypeTag { return s.tag }

// LiteralValue returns the expected value of a literal Spec, or a null value otherwise.
func (s Spec) LiteralValue() ldvalue.Value {
	if s.kind == literalSpec {
		return s.literal
	}
	return ldvalue.Null()
}

// Expectation describes what the Spec checks, for use in assertion messages: "a long",
// "equal to 9606".
func (s Spec) Expectation() string {
	if s.kind == literalSpec {
		return "equal to " + s.literal.JSONString()
	}
	return "a " + s.tag.String()
}

// Matches returns true if a present field value satisfies the Spec.
func (s Spec) Matches(value ldvalue.Value) bool {
	if s.kind == literalSpec {
		return value.Equal(s.literal)
	}
	return CheckType(value, s.tag)
}

func (s Spec) String() string {
	return s.name + " (" + s.Expectation() + ")"
}

type specObjectRep struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Equals json.RawMessage `json:"equals"`
}

// UnmarshalJSON accepts the three forms used in test definition files:
//
//	"id"                           a string field
//	["length", "long"]             a typed field if the second element is a type name,
//	["referenceName", "22"]        otherwise a literal
//	{"name": "x", "type": "int"}   explicit typed form
//	{"name": "x", "equals": 9606}  explicit literal form
func (s *Spec) UnmarshalJSON(data []byte) error {
	value := ldvalue.Parse(data)
	switch value.Type() {
	case ldvalue.StringType:
		*s = Name(value.StringValue())
		return nil
	case ldvalue.ArrayType:
		if value.Count() != 2 || value.GetByIndex(0).Type() != ldvalue.StringType {
			return fmt.Errorf("field spec array must be [name, expectation], got %s", value.JSONString())
		}
		name, expected := value.GetByIndex(0).StringValue(), value.GetByIndex(1)
		if expected.Type() == ldvalue.StringType {
			if tag, ok := ParseTypeTag(expected.StringValue()); ok {
				*s = Typed(name, tag)
				return nil
			}
		}
		*s = Literal(name, expected)
		return nil
	case ldvalue.ObjectType:
		var rep specObjectRep
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&rep); err != nil {
			return fmt.Errorf("invalid field spec %s: %w", value.JSONString(), err)
		}
		if rep.Name == "" {
			return errors.New("field spec object requires a name")
		}
		if len(rep.Equals) != 0 {
			if rep.Type != "" {
				return fmt.Errorf("field spec %q cannot have both type and equals", rep.Name)
			}
			*s = Literal(rep.Name, ldvalue.Parse(rep.Equals))
			return nil
		}
		if rep.Type == "" {
			*s = Name(rep.Name)
			return nil
		}
		tag, ok := ParseTypeTag(rep.Type)
		if !ok {
			return fmt.Errorf("field spec %q has unknown type %q", rep.Name, rep.Type)
		}
		*s = Typed(rep.Name, tag)
		return nil
	default:
		return fmt.Errorf("invalid field spec: %s", string(data))
	}
}
