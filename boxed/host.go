package boxed

import (
	"encoding/json"
	"net/url"
	"time"
)

// Boxable is implemented by host types that have a native boxed
// representation, rather than falling back to the generic Codable-via-JSON
// path below.
type Boxable interface {
	ToBoxed() Value
}

// FromBoxed is implemented by host types that can attempt to initialize
// themselves from a Value. It reports false (a miss, not a panic or a
// truncation) when the value's kind or range is incompatible.
type FromBoxed interface {
	FromBoxed(Value) bool
}

// Time boxes a time.Time through its ISO-8601 (RFC 3339) string form, per
// the data model's "dates round-trip through ISO-8601 strings" rule.
func Time(t time.Time) Value {
	return String(t.Format(time.RFC3339Nano))
}

// AsTime unboxes an ISO-8601 string value back into a time.Time.
func (v Value) AsTime() (time.Time, bool) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// URL boxes a *url.URL through its absolute string form.
func URL(u *url.URL) Value {
	if u == nil {
		return Null()
	}
	return String(u.String())
}

// AsURL unboxes a string value as an absolute URL.
func (v Value) AsURL() (*url.URL, bool) {
	s, ok := v.AsString()
	if !ok {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	return u, true
}

// Codable boxes any JSON-marshalable structure that has no native boxed
// arm through a canonical JSON encoding (sorted object keys) embedded as
// bytes, per the data model's fallback rule for Codable structures.
func Codable(x any) (Value, error) {
	b, err := CanonicalJSON(x)
	if err != nil {
		return Value{}, err
	}
	return Bytes(b), nil
}

// AsCodable unboxes a bytes-kind value produced by Codable back into out
// (a pointer).
func (v Value) AsCodable(out any) bool {
	b, ok := v.AsBytes()
	if !ok {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// Array/list-of-T and mapping-of-T round trips are just Array/Dict of
// per-element boxed values; callers box/unbox each element with the
// helpers above, matching the data model's "ordered list of T" /
// "mapping from string to T" primitive-table entries.
