package middleware

import "net/http"

// Chain composes middlewares in the given order, outermost first — the
// same ordered-wrapping idiom the mock engine's own middleware chain
// uses, simplified to the two stages the spec requires: scenario then
// session.
func Chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		h := final
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}
