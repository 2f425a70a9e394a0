// Package tensor provides the flat buffer, shape and dtype types shared by
// the Ember operator contract.
package tensor

// DataType is runtime type information for a tensor buffer.
//
// The zero value is Invalid so that an unresolved dtype is representable
// during type inference.
type DataType int

// Supported data types.
const (
	Invalid DataType = iota
	Float32
	Float64
	Int32
	Bool
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	case Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Invalid:
		return "invalid"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}
