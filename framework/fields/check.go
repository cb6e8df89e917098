package fields

import (
	"time"

	"github.com/ga4gh/compliance-harness/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// CheckType returns true if a present field value has the shape described by the TypeTag.
func CheckType(value ldvalue.Value, tag TypeTag) bool {
	switch tag {
	case String:
		return value.Type() == ldvalue.StringType
	case Int:
		return value.IsInt()
	case Long:
		return helpers.HasIntegerPrefix(value)
	case Boolean:
		return value.Type() == ldvalue.BoolType
	case Array:
		return value.Type() == ldvalue.ArrayType
	case KeyValue:
		return value.Type() == ldvalue.ObjectType
	case Date:
		switch value.Type() {
		case ldvalue.NumberType:
			return value.IsInt()
		case ldvalue.StringType:
			s := value.StringValue()
			if helpers.HasIntegerPrefix(value) {
				return true
			}
			_, err := time.Parse(time.RFC3339, s)
			return err == nil
		default:
			return false
		}
	default:
		return false
	}
}
