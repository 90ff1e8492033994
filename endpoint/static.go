package endpoint

import (
	"net/http"

	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/request"
)

// StaticResponse builds a ResponseFactory that always returns the same
// fixed content, for the common case where a declared response's content
// is fixed at declaration time rather than computed by a closure.
func StaticResponse(status int, content boxed.Value, contentType request.ContentType) ResponseFactory {
	return func(_ request.Request, _ request.Context) (request.Response, error) {
		resp := request.NewResponse(content, contentType)
		resp.Status = status
		return resp, nil
	}
}

// StaticJSON is a convenience wrapper over StaticResponse for the common
// JSON-endpoint case, defaulting to status 200.
func StaticJSON(content boxed.Value) ResponseFactory {
	return StaticResponse(http.StatusOK, content, request.ContentTypeJSON)
}
