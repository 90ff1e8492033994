package request

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/ident"
)

// Request is the decoded, transport-agnostic request envelope actions and
// response factories operate on.
type Request struct {
	Method      string
	Path        string
	Header      http.Header
	Query       url.Values
	ContentType ContentType
	// Body is the decoded request payload, produced by the endpoint's
	// request codec. Its boxed Kind depends on the codec (a dict for JSON
	// object bodies, bytes for an opaque protobuf payload, etc).
	Body boxed.Value
	// Raw holds the undecoded wire bytes, for codecs or actions that need
	// to re-decode with different assumptions.
	Raw []byte
	// Params holds the named path parameters captured by the route matcher
	// for the endpoint pattern this request matched.
	Params map[string]string
}

// PathParam looks up a named path parameter captured by the route matcher.
func (r Request) PathParam(name string) (string, bool) {
	v, ok := r.Params[name]
	return v, ok
}

// Response is the envelope a ResponseFactory or a pipeline action produces.
type Response struct {
	ID          ident.ResponseID
	Status      int
	Headers     http.Header
	Trailers    http.Header
	Content     boxed.Value
	ContentType ContentType
}

// NewResponse builds a Response with sensible defaults (status 200, empty
// header maps).
func NewResponse(content boxed.Value, contentType ContentType) Response {
	return Response{
		Status:      http.StatusOK,
		Headers:     make(http.Header),
		Trailers:    make(http.Header),
		Content:     content,
		ContentType: contentType,
	}
}

// WithStatus returns a copy of r with a different status code.
func (r Response) WithStatus(status int) Response {
	r.Status = status
	return r
}

// Context is the small typed object threaded alongside a Request through
// action execution. It intentionally holds only identifiers and the
// scenario's custom options map rather than live references to the
// endpoint/scenario registries, so this package does not need to import
// them (and they do not need to import this package's Context back).
type Context struct {
	EndpointID ident.EndpointID
	ScenarioID ident.ScenarioID
	SessionID  ident.SessionID
	Logger     *slog.Logger
	// Options is the active scenario's CustomOptions map, attached when the
	// request is dispatched.
	Options map[string]boxed.Value
}
