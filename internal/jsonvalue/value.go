// Package jsonvalue provides a generic, order-preserving JSON tree with accessors
// that report absence instead of failing.
//
// Article payloads have an open shape: a keyword list next to an arbitrary number
// of numerically named sections. Decoding into structs would lose the section keys
// and map[string]any loses their order, so documents are decoded into Value.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the type held by a Value.
type Kind int

// Value kinds. Missing is the zero Kind and marks an absent value.
const (
	Missing Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

var kindNames = map[Kind]string{
	Missing: "missing",
	Null:    "null",
	Bool:    "bool",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parse errors.
var (
	ErrEmptyInput   = errors.New("empty JSON input")
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")
	ErrUnexpected   = errors.New("unexpected JSON token")
)

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is Missing.
type Value struct {
	kind    Kind
	boolean bool
	text    string
	items   []Value
	members []Member
}

// Parse decodes exactly one JSON value from data.
// Duplicate object keys keep their first position and take the last value.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyInput
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decode(dec)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}

	return v, nil
}

func decode(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Value{kind: Null}, nil
	case bool:
		return Value{kind: Bool, boolean: t}, nil
	case json.Number:
		return Value{kind: Number, text: t.String()}, nil
	case string:
		return Value{kind: String, text: t}, nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}

	return Value{}, fmt.Errorf("%w: %v", ErrUnexpected, tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Value{kind: Object}
	index := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: object key %v", ErrUnexpected, tok)
		}

		val, err := decode(dec)
		if err != nil {
			return Value{}, err
		}

		if i, seen := index[key]; seen {
			obj.members[i].Value = val
			continue
		}

		index[key] = len(obj.members)
		obj.members = append(obj.members, Member{Key: key, Value: val})
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := Value{kind: Array}

	for dec.More() {
		val, err := decode(dec)
		if err != nil {
			return Value{}, err
		}

		arr.items = append(arr.items, val)
	}

	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return arr, nil
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Exists reports whether v is present (including JSON null).
func (v Value) Exists() bool {
	return v.kind != Missing
}

// Get returns the member named key, or a Missing value when v is not an
// object or has no such member.
func (v Value) Get(key string) Value {
	if v.kind != Object {
		return Value{}
	}

	for _, m := range v.members {
		if m.Key == key {
			return m.Value
		}
	}

	return Value{}
}

// Keys returns object keys in document order. Non-objects have no keys.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}

	keys := make([]string, 0, len(v.members))
	for _, m := range v.members {
		keys = append(keys, m.Key)
	}

	return keys
}

// Members returns the object members in document order.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}

	return append([]Member(nil), v.members...)
}

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns array elements. Non-arrays have no items.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}

	return append([]Value(nil), v.items...)
}

// Index returns the i-th array element or Missing.
func (v Value) Index(i int) Value {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return Value{}
	}

	return v.items[i]
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	if v.kind != String {
		return "", false
	}

	return v.text, true
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}

	return v.boolean, true
}

// Number returns the numeric literal held by v.
func (v Value) Number() (json.Number, bool) {
	if v.kind != Number {
		return "", false
	}

	return json.Number(v.text), true
}

// Strings returns the elements of an array of strings. It reports false when v
// is not an array or any element is not a string. An empty array yields an
// empty, non-nil slice.
func (v Value) Strings() ([]string, bool) {
	if v.kind != Array {
		return nil, false
	}

	out := make([]string, 0, len(v.items))
	for _, item := range v.items {
		s, ok := item.Str()
		if !ok {
			return nil, false
		}

		out = append(out, s)
	}

	return out, true
}
