package prefs

import (
	"fmt"
	"strconv"
)

// Kind is the storage type of a preference.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a typed preference value. Zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

func BoolValue(v bool) Value {
	return Value{kind: KindBool, b: v}
}

func IntValue(v int64) Value {
	return Value{kind: KindInt, i: v}
}

func StringValue(v string) Value {
	return Value{kind: KindString, s: v}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// Bool returns boolean payload, false for other kinds.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.b
}

// Int returns integer payload, 0 for other kinds.
func (v Value) Int() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

// Text returns string payload, "" for other kinds.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// String formats value for humans and logs.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}

// encode produces storage representation of the payload.
func (v Value) encode() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

func decodeValue(kind Kind, text string) (Value, error) {
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("bad boolean %q: %w", text, err)
		}
		return BoolValue(b), nil
	case KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad integer %q: %w", text, err)
		}
		return IntValue(i), nil
	case KindString:
		return StringValue(text), nil
	default:
		return Value{}, fmt.Errorf("unsupported preference kind %d", kind)
	}
}
