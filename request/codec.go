package request

import "github.com/renkon/renkon/boxed"

// Encoder turns a boxed content value into wire bytes for a content type.
// The transport layer (a stock HTTP server, assumed by the design rather
// than owned by it) is responsible for writing the bytes and the
// Content-Type header; Encoder only owns the payload shape.
type Encoder interface {
	Encode(content boxed.Value) ([]byte, error)
}

// Decoder turns wire bytes into a boxed content value.
type Decoder interface {
	Decode(raw []byte) (boxed.Value, error)
}

// Codec bundles an Encoder and Decoder for one content type.
type Codec interface {
	Encoder
	Decoder
}
