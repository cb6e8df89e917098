package helpers

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// LooseString converts a JSON value to text the way a dynamically typed client would when it
// needs a string: arrays are joined with commas, with null elements becoming empty, and objects
// become "[object Object]".
func LooseString(value ldvalue.Value) string {
	switch value.Type() {
	case ldvalue.StringType:
		return value.StringValue()
	case ldvalue.ArrayType:
		items := make([]string, 0, value.Count())
		for i := 0; i < value.Count(); i++ {
			item := value.GetByIndex(i)
			if item.IsNull() {
				items = append(items, "")
			} else {
				items = append(items, LooseString(item))
			}
		}
		return strings.Join(items, ",")
	case ldvalue.ObjectType:
		return "[object Object]"
	default:
		// null, booleans and numbers
		return value.JSONString()
	}
}

// TrimLeadingSpace removes leading white space, including the byte order mark and every Unicode
// space separator, but not U+0085.
func TrimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, isLooseSpace)
}

func isLooseSpace(r rune) bool {
	return r == '\ufeff' || (r != '\u0085' && unicode.IsSpace(r))
}

// HasIntegerPrefix reports whether the loose string form of value starts with a decimal integer,
// after leading white space and an optional sign. Trailing text is ignored, so "12px" and [12]
// qualify but "px12" does not.
func HasIntegerPrefix(value ldvalue.Value) bool {
	s := TrimLeadingSpace(LooseString(value))
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// LooselyZero reports whether value would compare equal to the number 0 under loose equality:
// the number 0, false, and any string or array whose loose string form is blank or a numeric
// literal with the value zero. Null and objects are never zero.
func LooselyZero(value ldvalue.Value) bool {
	switch value.Type() {
	case ldvalue.NumberType:
		return value.Float64Value() == 0
	case ldvalue.BoolType:
		return !value.BoolValue()
	case ldvalue.StringType, ldvalue.ArrayType:
		s := strings.TrimRightFunc(TrimLeadingSpace(LooseString(value)), isLooseSpace)
		if s == "" {
			return true
		}
		return numericLiteralIsZero(s)
	default:
		return false
	}
}

func numericLiteralIsZero(s string) bool {
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			return err == nil && n == 0
		}
	}
	if strings.ContainsAny(s, "_xXpPiInN") {
		// rules out forms that ParseFloat accepts but a numeric literal does not, such as
		// hexadecimal floats, "inf" and "nan"
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == 0
}
