// Package request defines Renkon's request/response/context envelopes and
// the content-type negotiation table used by the endpoint registry.
package request

import "strings"

// ContentType tags one of the wire content types an endpoint can declare
// for its request or response side.
type ContentType string

const (
	ContentTypeJSON                ContentType = "json"
	ContentTypeProtobufGRPC        ContentType = "protobuf-grpc"
	ContentTypeProtobufGRPCWeb     ContentType = "protobuf-grpc-web"
	ContentTypeProtobufGRPCWebText ContentType = "protobuf-grpc-web-text"
)

// headerEntry is one row of the canonical content-type table from the
// component design: a canonical outgoing header plus the set of header
// values that are also accepted on the way in.
type headerEntry struct {
	canonical string
	accepted  []string
}

var table = map[ContentType]headerEntry{
	ContentTypeJSON: {
		canonical: "application/json",
		accepted:  []string{"application/json", "text/json"},
	},
	ContentTypeProtobufGRPC: {
		canonical: "application/grpc",
		accepted:  []string{"application/grpc", "application/grpc+proto"},
	},
	ContentTypeProtobufGRPCWeb: {
		canonical: "application/grpc-web+proto",
		accepted:  []string{"application/grpc-web+proto", "application/grpc-web"},
	},
	ContentTypeProtobufGRPCWebText: {
		canonical: "application/grpc-web-text+proto",
		accepted:  []string{"application/grpc-web-text+proto", "application/grpc-web-text"},
	},
}

// Canonical returns the canonical outgoing Content-Type header value for a
// tag.
func Canonical(ct ContentType) string {
	return table[ct].canonical
}

// Accepts reports whether an incoming Content-Type header value (ignoring
// any ";charset=..." parameter and surrounding whitespace) is accepted for
// the given tag.
func Accepts(ct ContentType, header string) bool {
	header = normalizeHeader(header)
	for _, a := range table[ct].accepted {
		if a == header {
			return true
		}
	}
	return false
}

// Resolve maps an incoming Content-Type header value back to the tag it
// belongs to, if any.
func Resolve(header string) (ContentType, bool) {
	header = normalizeHeader(header)
	for ct, entry := range table {
		for _, a := range entry.accepted {
			if a == header {
				return ct, true
			}
		}
	}
	return "", false
}

func normalizeHeader(header string) string {
	if i := strings.IndexByte(header, ';'); i >= 0 {
		header = header[:i]
	}
	return strings.ToLower(strings.TrimSpace(header))
}
