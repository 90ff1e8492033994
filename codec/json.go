// Package codec provides concrete Encoder/Decoder implementations behind
// the request package's pluggable codec interfaces: a JSON codec built on
// encoding/json, and a protobuf codec built on google.golang.org/protobuf's
// structpb, which gives a real, schema-free protobuf wire round trip for
// boxed content without standing up a dynamic-proto/gRPC stack.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/renkon/renkon/boxed"
)

// JSON is the request.Codec for ContentTypeJSON.
type JSON struct{}

// Encode marshals content to JSON bytes. Because boxed.Value implements
// json.Marshaler/Unmarshaler directly, this is a thin pass-through, but it
// is named and kept here so the endpoint registry always goes through a
// Codec rather than calling encoding/json itself.
func (JSON) Encode(content boxed.Value) ([]byte, error) {
	b, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return b, nil
}

// Decode unmarshals JSON bytes into a boxed.Value. Empty bodies decode to
// the null arm rather than erroring, matching how most JSON mock bodies
// for GET-style requests are absent entirely.
func (JSON) Decode(raw []byte) (boxed.Value, error) {
	if len(raw) == 0 {
		return boxed.Null(), nil
	}
	var v boxed.Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return boxed.Value{}, fmt.Errorf("json decode: %w", err)
	}
	return v, nil
}
