package simfx

import (
	"fmt"
	"strconv"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// DataType is the engine's declared type of a data item.
type DataType int32

const (
	TypeDouble       = DataType(native.DataTypeDouble)
	TypeInteger      = DataType(native.DataTypeInteger)
	TypeString       = DataType(native.DataTypeString)
	TypeVariable     = DataType(native.DataTypeVariable)
	TypeIntegerIndex = DataType(native.DataTypeIntegerIndex)
	TypeBoolean      = DataType(native.DataTypeBoolean)
)

var dataTypeNames = map[DataType]string{
	TypeDouble:       "Double",
	TypeInteger:      "Integer",
	TypeString:       "String",
	TypeVariable:     "Variable",
	TypeIntegerIndex: "IntegerIndex",
	TypeBoolean:      "Boolean",
}

func (t DataType) String() string {
	if n, ok := dataTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("DataType(%d)", int32(t))
}

// Value is a data item value tagged with its engine type. Exactly one payload
// field is meaningful, selected by Type:
//
//	TypeDouble               Double
//	TypeInteger              Int
//	TypeIntegerIndex         Int, 0-based
//	TypeString, TypeVariable Text
//	TypeBoolean              Bool
type Value struct {
	Type   DataType
	Double float64
	Int    int
	Text   string
	Bool   bool
}

// DoubleValue returns a TypeDouble value.
func DoubleValue(v float64) Value { return Value{Type: TypeDouble, Double: v} }

// IntegerValue returns a TypeInteger value.
func IntegerValue(v int) Value { return Value{Type: TypeInteger, Int: v} }

// IndexValue returns a TypeIntegerIndex value; i is 0-based.
func IndexValue(i int) Value { return Value{Type: TypeIntegerIndex, Int: i} }

// StringValue returns a TypeString value.
func StringValue(s string) Value { return Value{Type: TypeString, Text: s} }

// VariableValue returns a TypeVariable value naming variable data.
func VariableValue(name string) Value { return Value{Type: TypeVariable, Text: name} }

// BoolValue returns a TypeBoolean value.
func BoolValue(b bool) Value { return Value{Type: TypeBoolean, Bool: b} }

// Any returns the payload as a plain Go value.
func (v Value) Any() any {
	switch v.Type {
	case TypeDouble:
		return v.Double
	case TypeInteger, TypeIntegerIndex:
		return v.Int
	case TypeBoolean:
		return v.Bool
	}
	return v.Text
}

func (v Value) String() string {
	switch v.Type {
	case TypeDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case TypeInteger, TypeIntegerIndex:
		return strconv.Itoa(v.Int)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	}
	return v.Text
}

// valueOf wraps a plain Go value. A Value passes through.
func valueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case float64:
		return DoubleValue(v), nil
	case float32:
		return DoubleValue(float64(v)), nil
	case int:
		return IntegerValue(v), nil
	case int32:
		return IntegerValue(int(v)), nil
	case int64:
		if int64(int(v)) != v {
			return Value{}, fmt.Errorf("%w: %d", ErrValueRange, v)
		}
		return IntegerValue(int(v)), nil
	case string:
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported Go type %T", ErrTypeMismatch, x)
}

// coerce converts v to the declared type dt. Integers widen to doubles and
// strings fill variable-data items; anything else must already match.
func coerce(v Value, dt DataType) (Value, error) {
	switch {
	case v.Type == dt:
		return v, nil
	case dt == TypeDouble && v.Type == TypeInteger:
		return DoubleValue(float64(v.Int)), nil
	case dt == TypeIntegerIndex && v.Type == TypeInteger:
		return IndexValue(v.Int), nil
	case dt == TypeVariable && v.Type == TypeString:
		return VariableValue(v.Text), nil
	case dt == TypeString && v.Type == TypeVariable:
		return StringValue(v.Text), nil
	}
	return Value{}, fmt.Errorf("%w: %s value for %s item", ErrTypeMismatch, v.Type, dt)
}
