package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueObject
	ValueArray
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueObject:
		return "object"
	case ValueArray:
		return "array"
	default:
		return "null"
	}
}

// Value is a structured property value. Numbers keep their canonical
// decimal text so integers beyond float64 precision survive a round trip.
type Value struct {
	kind   ValueKind
	str    string
	num    string
	flag   bool
	object map[string]Value
	array  []Value
}

func NullValue() Value {
	return Value{}
}

func StringValue(value string) Value {
	return Value{kind: ValueString, str: value}
}

func IntValue(value int64) Value {
	return Value{kind: ValueNumber, num: strconv.FormatInt(value, 10)}
}

func FloatValue(value float64) Value {
	return Value{kind: ValueNumber, num: canonicalFloat(value)}
}

func BoolValue(value bool) Value {
	return Value{kind: ValueBool, flag: value}
}

func ObjectValue(fields map[string]Value) Value {
	object := make(map[string]Value, len(fields))
	for key, field := range fields {
		object[key] = field.Clone()
	}
	return Value{kind: ValueObject, object: object}
}

func ArrayValue(items ...Value) Value {
	array := make([]Value, 0, len(items))
	for _, item := range items {
		array = append(array, item.Clone())
	}
	return Value{kind: ValueArray, array: array}
}

// ValueOf converts plain Go values (as produced by encoding/json or literals)
// into a Value.
func ValueOf(input any) (Value, error) {
	switch typed := input.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return typed.Clone(), nil
	case string:
		return StringValue(typed), nil
	case bool:
		return BoolValue(typed), nil
	case int:
		return IntValue(int64(typed)), nil
	case int32:
		return IntValue(int64(typed)), nil
	case int64:
		return IntValue(typed), nil
	case float32:
		return FloatValue(float64(typed)), nil
	case float64:
		return FloatValue(typed), nil
	case json.Number:
		return numberValue(typed.String())
	case []any:
		items := make([]Value, 0, len(typed))
		for _, item := range typed {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, converted)
		}
		return Value{kind: ValueArray, array: items}, nil
	case []string:
		items := make([]Value, 0, len(typed))
		for _, item := range typed {
			items = append(items, StringValue(item))
		}
		return Value{kind: ValueArray, array: items}, nil
	case map[string]any:
		object := make(map[string]Value, len(typed))
		for key, item := range typed {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			object[key] = converted
		}
		return Value{kind: ValueObject, object: object}, nil
	default:
		return Value{}, fmt.Errorf("core: unsupported property value type %T", input)
	}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == ValueNull
}

func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return v.num
	case ValueBool:
		return strconv.FormatBool(v.flag)
	case ValueNull:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == ValueBool
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	parsed, err := strconv.ParseInt(v.num, 10, 64)
	return parsed, err == nil
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(v.num, 64)
	return parsed, err == nil
}

func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != ValueObject {
		return nil, false
	}
	return ObjectValue(v.object).object, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind != ValueArray {
		return nil, false
	}
	return ArrayValue(v.array...).array, true
}

// Interface returns the plain Go representation used by encoding/json.
func (v Value) Interface() any {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return json.Number(v.num)
	case ValueBool:
		return v.flag
	case ValueObject:
		out := make(map[string]any, len(v.object))
		for key, field := range v.object {
			out[key] = field.Interface()
		}
		return out
	case ValueArray:
		out := make([]any, 0, len(v.array))
		for _, item := range v.array {
			out = append(out, item.Interface())
		}
		return out
	default:
		return nil
	}
}

func (v Value) Clone() Value {
	switch v.kind {
	case ValueObject:
		object := make(map[string]Value, len(v.object))
		for key, field := range v.object {
			object[key] = field.Clone()
		}
		return Value{kind: ValueObject, object: object}
	case ValueArray:
		array := make([]Value, 0, len(v.array))
		for _, item := range v.array {
			array = append(array, item.Clone())
		}
		return Value{kind: ValueArray, array: array}
	default:
		return v
	}
}

// Equal compares structurally; object key order never matters.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueNull:
		return true
	case ValueString:
		return v.str == other.str
	case ValueNumber:
		return v.num == other.num
	case ValueBool:
		return v.flag == other.flag
	case ValueObject:
		if len(v.object) != len(other.object) {
			return false
		}
		for key, field := range v.object {
			otherField, ok := other.object[key]
			if !ok || !field.Equal(otherField) {
				return false
			}
		}
		return true
	case ValueArray:
		if len(v.array) != len(other.array) {
			return false
		}
		for i := range v.array {
			if !v.array[i].Equal(other.array[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("core: decode property value: %w", err)
	}
	converted, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = converted
	return nil
}

func numberValue(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if parsed, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntValue(parsed), nil
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, fmt.Errorf("core: invalid number %q", text)
	}
	return FloatValue(parsed), nil
}

func canonicalFloat(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}
