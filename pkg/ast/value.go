package ast

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/node"
)

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	ValueKindNull ValueKind = iota
	ValueKindEnum
	ValueKindVariable
	ValueKindString
	ValueKindInt
	ValueKindFloat
	ValueKindBoolean
	ValueKindList
	ValueKindObject
)

// ObjectField is one (name, value) pair of an Object value, order-preserving.
type ObjectField struct {
	Name  Name
	Value Value
}

// valueData is the payload wrapped by a Value node.
type valueData struct {
	Kind ValueKind

	// EnumValue / VariableName set iff Kind is ValueKindEnum / ValueKindVariable.
	EnumValue    Name
	VariableName Name

	StringValue string
	// IntLexeme / FloatLexeme preserve the original source text so magnitude
	// beyond IEEE-754/int64 range survives; conversion to int32/float64 is a
	// fallible operation (AsInt/AsFloat below), per spec.md §3.
	IntLexeme   string
	FloatLexeme string

	BooleanValue bool

	ListValues   []Value
	ObjectFields []ObjectField
}

// Value is the recursive sum Null | Enum(name) | Variable(name) | String |
// Int(lexeme) | Float(lexeme) | Boolean | List | Object(ordered pairs), per
// spec.md §3.
type Value = node.Node[valueData]

func NullValue() Value { return node.New(valueData{Kind: ValueKindNull}) }

func EnumValue(name Name) Value {
	return node.New(valueData{Kind: ValueKindEnum, EnumValue: name})
}

func VariableValue(name Name) Value {
	return node.New(valueData{Kind: ValueKindVariable, VariableName: name})
}

func StringValue(s string) Value {
	return node.New(valueData{Kind: ValueKindString, StringValue: s})
}

// IntValue stores the original lexeme verbatim, per spec.md §3.
func IntValue(lexeme string) Value {
	return node.New(valueData{Kind: ValueKindInt, IntLexeme: lexeme})
}

// FloatValue stores the original lexeme verbatim, per spec.md §3.
func FloatValue(lexeme string) Value {
	return node.New(valueData{Kind: ValueKindFloat, FloatLexeme: lexeme})
}

func BooleanValue(b bool) Value {
	return node.New(valueData{Kind: ValueKindBoolean, BooleanValue: b})
}

func ListValue(items []Value) Value {
	return node.New(valueData{Kind: ValueKindList, ListValues: items})
}

func ObjectValue(fields []ObjectField) Value {
	return node.New(valueData{Kind: ValueKindObject, ObjectFields: fields})
}

// ValueKindOf returns v's discriminant.
func ValueKindOf(v Value) ValueKind { return v.Value().Kind }

// AsInt attempts to parse the Int value's lexeme as an int32, the GraphQL
// Int scalar's representable range, per spec.md §4.8's Int coercion rule.
func AsInt(v Value) (int32, bool) {
	d := v.Value()
	if d.Kind != ValueKindInt {
		return 0, false
	}
	n, err := strconv.ParseInt(d.IntLexeme, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// AsFloat attempts to parse an Int or Float value's lexeme as a float64.
func AsFloat(v Value) (float64, bool) {
	d := v.Value()
	var lexeme string
	switch d.Kind {
	case ValueKindFloat:
		lexeme = d.FloatLexeme
	case ValueKindInt:
		lexeme = d.IntLexeme
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsBool returns v's boolean value and true iff v is a Boolean value.
func AsBool(v Value) (bool, bool) {
	d := v.Value()
	if d.Kind != ValueKindBoolean {
		return false, false
	}
	return d.BooleanValue, true
}

// AsString returns v's string contents and true iff v is a String value.
func AsString(v Value) (string, bool) {
	d := v.Value()
	if d.Kind != ValueKindString {
		return "", false
	}
	return d.StringValue, true
}

// AsEnum returns v's member name and true iff v is an Enum value.
func AsEnum(v Value) (Name, bool) {
	d := v.Value()
	if d.Kind != ValueKindEnum {
		return "", false
	}
	return d.EnumValue, true
}

// AsVariable returns the referenced variable name and true iff v is a
// Variable value.
func AsVariable(v Value) (Name, bool) {
	d := v.Value()
	if d.Kind != ValueKindVariable {
		return "", false
	}
	return d.VariableName, true
}

// AsList returns v's element values and true iff v is a List value.
func AsList(v Value) ([]Value, bool) {
	d := v.Value()
	if d.Kind != ValueKindList {
		return nil, false
	}
	return d.ListValues, true
}

// AsObject returns v's fields and true iff v is an Object value.
func AsObject(v Value) ([]ObjectField, bool) {
	d := v.Value()
	if d.Kind != ValueKindObject {
		return nil, false
	}
	return d.ObjectFields, true
}

func (v valueData) HashInto(d *xxhash.Digest) {
	_, _ = d.Write([]byte{byte(v.Kind)})
	switch v.Kind {
	case ValueKindEnum:
		v.EnumValue.HashInto(d)
	case ValueKindVariable:
		v.VariableName.HashInto(d)
	case ValueKindString:
		_, _ = d.WriteString(v.StringValue)
	case ValueKindInt:
		_, _ = d.WriteString(v.IntLexeme)
	case ValueKindFloat:
		_, _ = d.WriteString(v.FloatLexeme)
	case ValueKindBoolean:
		if v.BooleanValue {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case ValueKindList:
		for _, item := range v.ListValues {
			hashUint64(d, item.Hash())
		}
	case ValueKindObject:
		for _, f := range v.ObjectFields {
			f.Name.HashInto(d)
			hashUint64(d, f.Value.Hash())
		}
	}
}

func hashUint64(d *xxhash.Digest, h uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(h >> (8 * i))
	}
	_, _ = d.Write(buf[:])
}
