package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/renkon/renkon/ident"
)

// SessionHeader is the request header carrying the selected session id.
const SessionHeader = "x-renkon-session"

// Session builds the session-selection middleware: it reads
// SessionHeader, or mints a fresh UUIDv4 if the header is absent. The
// minted id is attached to the request context only; it is not reflected
// back in a response header unless surrounding transport middleware
// chooses to.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(SessionHeader)
			if raw == "" {
				raw = uuid.NewString()
			}
			id := ident.New[ident.SessionTag](raw)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
		})
	}
}
