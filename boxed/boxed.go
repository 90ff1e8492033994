// Package boxed implements the tagged-union value type used to ferry
// configuration and structured data through Renkon in a codec-agnostic way.
//
// Every value an ActionConfiguration or a Scenario.Options carries is first
// reduced to a Value. The round-trip contract lives in the constructor and
// As* method pairs (Int/AsInt64, Time/AsTime, ...): decode(encode(x)) == x
// for every primitive and composite listed in the data model.
package boxed

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the arm of the Value sum type that is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindArray
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is the boxed tagged union. The zero Value is the null arm.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f32  float32
	f64  float64
	s    string
	by   []byte
	arr  []Value
	dict map[string]Value
}

// Null returns the null arm.
func Null() Value { return Value{kind: KindNull} }

// Bool boxes a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int boxes a signed 64-bit integer. Narrower host integer widths validate
// range on unbox rather than truncating.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float boxes a single-precision float.
func Float(f float32) Value { return Value{kind: KindFloat, f32: f} }

// Double boxes a double-precision float.
func Double(f float64) Value { return Value{kind: KindDouble, f64: f} }

// String boxes a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes boxes a raw byte slice.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, by: cp}
}

// Array boxes an ordered list of values.
func Array(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindArray, arr: cp}
}

// Dict boxes a string-keyed mapping of values.
func Dict(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindDict, dict: cp}
}

// Kind reports which arm is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null arm.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool unboxes v as a bool, applying the documented coercion rules:
// a nonzero int coerces to true/false, and a string coerces case-
// insensitively from "true"/"1" (true) or anything else (false) only
// when the string looks boolean-ish; anything else is a miss.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i != 0, true
	case KindString:
		switch strings.ToLower(v.s) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// AsInt64 unboxes v as an int64.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if float64(v.f32) == math.Trunc(float64(v.f32)) {
			return int64(v.f32), true
		}
		return 0, false
	case KindDouble:
		if v.f64 == math.Trunc(v.f64) {
			return int64(v.f64), true
		}
		return 0, false
	case KindString:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// AsInt32 unboxes v as an int32, failing (rather than truncating) if the
// value does not fit in 32 bits.
func (v Value) AsInt32() (int32, bool) {
	n, ok := v.AsInt64()
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

// AsFloat32 unboxes v as a float32.
func (v Value) AsFloat32() (float32, bool) {
	switch v.kind {
	case KindFloat:
		return v.f32, true
	case KindDouble:
		return float32(v.f64), true
	case KindInt:
		return float32(v.i), true
	default:
		return 0, false
	}
}

// AsFloat64 unboxes v as a float64.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.f64, true
	case KindFloat:
		return float64(v.f32), true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString unboxes v as a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBytes unboxes v as a byte slice.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	cp := make([]byte, len(v.by))
	copy(cp, v.by)
	return cp, true
}

// AsArray unboxes v as an ordered list of values.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	cp := make([]Value, len(v.arr))
	copy(cp, v.arr)
	return cp, true
}

// AsDict unboxes v as a string-keyed mapping.
func (v Value) AsDict() (map[string]Value, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	cp := make(map[string]Value, len(v.dict))
	for k, val := range v.dict {
		cp[k] = val
	}
	return cp, true
}

// Get looks up a key in a dict-kind value. Returns the null arm and false
// if v is not a dict or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	val, ok := v.dict[key]
	return val, ok
}

// Equal reports whether a and b are structurally equal: same kind, same
// value, element-wise for arrays and dicts. Used by the pipeline
// compatibility check to compare ActionConfiguration lists.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f32 == b.f32
	case KindDouble:
		return a.f64 == b.f64
	case KindString:
		return a.s == b.s
	case KindBytes:
		if len(a.by) != len(b.by) {
			return false
		}
		for i := range a.by {
			if a.by[i] != b.by[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.dict) != len(b.dict) {
			return false
		}
		for k, av := range a.dict {
			bv, ok := b.dict[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// EqualDicts reports whether two dict-shaped configuration mappings are
// structurally equal. Used to compare ActionConfiguration.Configuration.
func EqualDicts(a, b map[string]Value) bool {
	return Equal(Dict(a), Dict(b))
}

// CanonicalJSON encodes a generic JSON-like structure (nested
// maps/slices/scalars as produced by encoding/json) with lexicographically
// sorted object keys. encoding/json already sorts map[string]any keys when
// marshaling, so this is a thin, explicitly-named entry point for the
// "canonical JSON encoding... with sorted keys" requirement rather than a
// hand-rolled sorter.
func CanonicalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalJSON implements json.Marshaler, emitting the smallest equivalent
// JSON representation for the populated arm: bytes as base64, everything
// else as its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f32)
	case KindDouble:
		return json.Marshal(v.f64)
	case KindString:
		return json.Marshal(v.s)
	case KindBytes:
		return json.Marshal(base64.StdEncoding.EncodeToString(v.by))
	case KindArray:
		return json.Marshal(v.arr)
	case KindDict:
		// map[string]Value marshals with sorted keys already; encoding/json
		// sorts map keys for us.
		return json.Marshal(v.dict)
	default:
		return nil, fmt.Errorf("boxed: unknown kind %v", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. JSON does not self-describe
// int vs. float vs. bytes-as-base64, so decoding infers the most natural
// Kind: whole numbers become KindInt, fractional numbers KindDouble, and
// strings stay KindString (never auto-promoted to bytes — a caller that
// expects bytes unboxes a string-shaped value explicitly upstream).
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return Int(n)
		}
		f, _ := t.Float64()
		return Double(f)
	case string:
		return String(t)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = fromAny(e)
		}
		return Array(vs...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = fromAny(e)
		}
		return Dict(m)
	default:
		return Null()
	}
}

// SortedKeys returns a dict's keys in sorted order, for deterministic
// iteration (e.g. when logging or canonicalizing configuration).
func SortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
