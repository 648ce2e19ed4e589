package snapdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the type of data a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("invalid kind %d", int(k))
	}
}

// Value is a dynamically typed node of a document tree: an object (ordered
// mapping of string keys), an array, a string, a number, a boolean, or the
// absent marker. The zero Value is the absent marker.
//
// Objects and arrays are held by reference, so copies of a Value share the
// underlying containers.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	arr  []Value
	obj  *Object
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Bool returns the boolean payload, or false for any other kind.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Float64 returns the numeric payload, or 0 for any other kind.
func (v Value) Float64() float64 {
	if v.kind == KindNumber {
		return v.num
	}
	return 0
}

// Str returns the string payload, or "" for any other kind.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

// Array returns the backing slice of an array value, nil for any other kind.
func (v Value) Array() []Value {
	if v.kind == KindArray {
		return v.arr
	}
	return nil
}

// Object returns the backing object of an object value, nil for any other kind.
func (v Value) Object() *Object {
	if v.kind == KindObject {
		return v.obj
	}
	return nil
}

// Len returns the number of elements of an array, the number of live keys of
// an object, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Get returns the value of an object field, or the absent marker if the
// receiver is not an object or has no such field.
func (v Value) Get(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.obj.Get(key)
}

// At returns the i-th element of an array, or the absent marker if the
// receiver is not an array or the index is out of range.
func (v Value) At(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Truthy reports whether the value is considered present for filtering and
// join-key purposes: absent and false are falsy, numbers are falsy when zero
// or NaN, strings when empty; arrays and objects are always truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindAbsent:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindString:
		return v.str != ""
	default:
		return true
	}
}

// indexKey stringifies a value for use as a unique/index map key.
// Scalars use their canonical text form, composites their JSON text.
// Only the absent marker does not participate in indexing.
func (v Value) indexKey() (string, bool) {
	switch v.kind {
	case KindAbsent:
		return "", false
	case KindBool:
		if v.b {
			return "true", true
		}
		return "false", true
	case KindNumber:
		return formatNumber(v.num), true
	case KindString:
		return v.str, true
	default:
		return string(v.appendJSON(nil)), true
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Equal compares two values deeply. Arrays are order-sensitive; objects
// compare their live fields regardless of insertion order. Absent-valued
// object fields are ignored, so a tombstoned key compares equal to a
// missing one.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for _, k := range v.obj.keys {
			e := v.obj.entries[k]
			if e.IsAbsent() {
				continue
			}
			if !e.Equal(other.obj.Get(k)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy. Scalars are returned as is.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	default:
		return v
	}
}

func (v Value) String() string {
	if v.kind == KindAbsent {
		return "<absent>"
	}
	return string(v.appendJSON(nil))
}

func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

func (v Value) appendJSON(buf []byte) []byte {
	switch v.kind {
	case KindAbsent:
		return append(buf, "null"...)
	case KindBool:
		return strconv.AppendBool(buf, v.b)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return append(buf, "null"...)
		}
		return append(buf, formatNumber(v.num)...)
	case KindString:
		raw, err := json.Marshal(v.str)
		if err != nil {
			panic(err)
		}
		return append(buf, raw...)
	case KindArray:
		buf = append(buf, '[')
		for i, e := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = e.appendJSON(buf)
		}
		return append(buf, ']')
	case KindObject:
		buf = append(buf, '{')
		first := true
		for _, k := range v.obj.keys {
			e := v.obj.entries[k]
			if e.IsAbsent() {
				continue
			}
			if !first {
				buf = append(buf, ',')
			}
			first = false
			raw, err := json.Marshal(k)
			if err != nil {
				panic(err)
			}
			buf = append(buf, raw...)
			buf = append(buf, ':')
			buf = e.appendJSON(buf)
		}
		return append(buf, '}')
	default:
		panic(fmt.Errorf("invalid value kind %d", int(v.kind)))
	}
}

// Object is an ordered string-keyed mapping. Keys keep their first-insertion
// position; overwriting a key does not move it. A key may hold the absent
// marker (a tombstone): such keys are excluded from Len, Keys, Has and
// encoding, but remain in place structurally.
type Object struct {
	keys    []string
	entries map[string]Value
	live    int
}

// NewObject returns an empty object value.
func NewObject() Value {
	return Value{kind: KindObject, obj: &Object{entries: make(map[string]Value)}}
}

// NewArray returns an array value backed by the given elements.
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Len returns the number of live (non-absent) fields.
func (o *Object) Len() int { return o.live }

// Has reports whether key holds a live value.
func (o *Object) Has(key string) bool {
	return !o.entries[key].IsAbsent()
}

// Get returns the value at key, or the absent marker.
func (o *Object) Get(key string) Value {
	return o.entries[key]
}

// Set stores v at key, keeping the key's original position if it already
// exists (even as a tombstone). Storing the absent marker tombstones the key.
func (o *Object) Set(key string, v Value) {
	old, exists := o.entries[key]
	if !exists {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = v
	if exists && !old.IsAbsent() {
		o.live--
	}
	if !v.IsAbsent() {
		o.live++
	}
}

// Delete structurally removes key, unlike tombstoning via Set.
func (o *Object) Delete(key string) {
	old, exists := o.entries[key]
	if !exists {
		return
	}
	delete(o.entries, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	if !old.IsAbsent() {
		o.live--
	}
}

// Keys returns the live keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, 0, o.live)
	for _, k := range o.keys {
		if !o.entries[k].IsAbsent() {
			out = append(out, k)
		}
	}
	return out
}

// Clone returns a deep copy, tombstones included.
func (o *Object) Clone() *Object {
	out := &Object{
		keys:    append([]string(nil), o.keys...),
		entries: make(map[string]Value, len(o.entries)),
		live:    o.live,
	}
	for k, v := range o.entries {
		out.entries[k] = v.Clone()
	}
	return out
}

// Value returns the object wrapped as a Value.
func (o *Object) Value() Value {
	return Value{kind: KindObject, obj: o}
}

// ValueOf converts a native Go value to a Value. Maps convert with sorted
// keys; use Obj to control field order. Panics on unsupported types.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case *Object:
		return v.Value()
	case bool:
		return Value{kind: KindBool, b: v}
	case string:
		return Value{kind: KindString, str: v}
	case []byte:
		return Value{kind: KindString, str: string(v)}
	case float64:
		return Value{kind: KindNumber, num: v}
	case float32:
		return Value{kind: KindNumber, num: float64(v)}
	case int:
		return Value{kind: KindNumber, num: float64(v)}
	case int8:
		return Value{kind: KindNumber, num: float64(v)}
	case int16:
		return Value{kind: KindNumber, num: float64(v)}
	case int32:
		return Value{kind: KindNumber, num: float64(v)}
	case int64:
		return Value{kind: KindNumber, num: float64(v)}
	case uint:
		return Value{kind: KindNumber, num: float64(v)}
	case uint8:
		return Value{kind: KindNumber, num: float64(v)}
	case uint16:
		return Value{kind: KindNumber, num: float64(v)}
	case uint32:
		return Value{kind: KindNumber, num: float64(v)}
	case uint64:
		return Value{kind: KindNumber, num: float64(v)}
	case []Value:
		return NewArray(v...)
	case []any:
		arr := make([]Value, len(v))
		for i, e := range v {
			arr[i] = ValueOf(e)
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.obj.Set(k, ValueOf(v[k]))
		}
		return obj
	default:
		panic(fmt.Errorf("snapdb: cannot convert %T to Value", v))
	}
}

// Obj builds an object value from alternating key, value pairs, preserving
// the given field order. Values are converted via ValueOf.
func Obj(pairs ...any) Value {
	if len(pairs)%2 != 0 {
		panic(fmt.Errorf("snapdb: Obj requires an even number of arguments, got %d", len(pairs)))
	}
	obj := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Errorf("snapdb: Obj key %d is %T instead of string", i/2, pairs[i]))
		}
		obj.obj.Set(key, ValueOf(pairs[i+1]))
	}
	return obj
}

// Arr builds an array value, converting each element via ValueOf.
func Arr(items ...any) Value {
	arr := make([]Value, len(items))
	for i, e := range items {
		arr[i] = ValueOf(e)
	}
	return Value{kind: KindArray, arr: arr}
}

// ParseJSON converts a JSON document to a Value, preserving the source order
// of object fields.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("snapdb: invalid JSON: %w", err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("snapdb: invalid JSON: trailing data")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch tok := tok.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return ValueOf(tok), nil
	case string:
		return ValueOf(tok), nil
	case json.Number:
		f, err := tok.Float64()
		if err != nil {
			return Value{}, err
		}
		return ValueOf(f), nil
	case json.Delim:
		switch tok {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Object().Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr.arr = append(arr.arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return arr, nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %v", tok)
		}
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}
