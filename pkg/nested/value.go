// Package nested provides a tagged JSON value type and a path accessor for
// walking nested mappings such as decoded GitHub API payloads.
package nested

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Kind identifies the shape of a Value.
type Kind int

// Value kinds. Only KindMap can be traversed by Access; the other kinds are
// leaves.
const (
	KindNull Kind = iota
	KindScalar
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Map is a mapping from string keys to values, possibly further maps.
type Map map[string]Value

// Value is a node in a nested document: null, a scalar, a mapping or a list.
// The zero Value is null.
type Value struct {
	kind   Kind
	scalar any
	m      Map
	list   []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Scalar wraps a leaf value such as a string, number or bool. A nil v yields
// the null value.
func Scalar(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindScalar, scalar: v}
}

// Nested wraps a mapping. A nil m is treated as an empty mapping.
func Nested(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: KindMap, m: m}
}

// List wraps an ordered sequence of values.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsScalar returns the wrapped leaf and true when v is a scalar.
func (v Value) AsScalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// AsMap returns the wrapped mapping and true when v is a mapping.
func (v Value) AsMap() (Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// AsList returns the wrapped items and true when v is a list.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// AsString returns the wrapped string and true when v is a string scalar.
func (v Value) AsString() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindScalar
}

// Interface converts v back into plain Go values: map[string]any, []any,
// scalars and nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, child := range v.m {
			out[k] = child.Interface()
		}
		return out
	case KindList:
		out := make([]any, len(v.list))
		for i, child := range v.list {
			out[i] = child.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and other have the same kind and contents.
// Scalars are compared by their JSON encoding so that json.Number("2") and
// float64(2) are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		a, errA := json.Marshal(v.scalar)
		b, errB := json.Marshal(other.scalar)
		return errA == nil && errB == nil && bytes.Equal(a, b)
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, child := range v.m {
			o, ok := other.m[k]
			if !ok || !child.Equal(o) {
				return false
			}
		}
		return true
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromAny converts a tree produced by encoding/json (map[string]any, []any,
// scalars, nil) into a Value. Values that are already a Value or Map are
// returned as is.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case Map:
		return Nested(t)
	case map[string]any:
		m := make(Map, len(t))
		for k, child := range t {
			m[k] = FromAny(child)
		}
		return Nested(m)
	case []any:
		items := make([]Value, len(t))
		for i, child := range t {
			items[i] = FromAny(child)
		}
		return List(items...)
	default:
		return Scalar(t)
	}
}

// Decode errors.
var (
	ErrEmptyDocument = errors.New("empty JSON document")
	ErrTrailingData  = errors.New("trailing data after JSON document")
)

// Decode parses exactly one JSON document into a Value. Numbers are kept as
// json.Number so large integer IDs survive the round trip. Anything but
// whitespace after the document is an error.
func Decode(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyDocument
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decoding JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}
	return FromAny(raw), nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
