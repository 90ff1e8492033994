package middleware

import (
	"net/http"

	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/scenario"
)

// ScenarioHeader is the request header carrying the selected scenario id.
const ScenarioHeader = "x-renkon-scenario"

// Scenario builds the scenario-selection middleware: it inspects
// ScenarioHeader, attaches the named scenario if known, falls back to the
// registry default if the header is absent, and otherwise rejects the
// request with Forbidden.
func Scenario(reg *scenario.Registry, writeErr func(http.ResponseWriter, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.Header.Get(ScenarioHeader); raw != "" {
				id := ident.New[ident.ScenarioTag](raw)
				s, ok := reg.Get(id)
				if !ok {
					writeErr(w, renkonerr.ScenarioUnknownErr(raw))
					return
				}
				next.ServeHTTP(w, r.WithContext(WithScenario(r.Context(), s)))
				return
			}

			if s, ok := reg.Default(); ok {
				next.ServeHTTP(w, r.WithContext(WithScenario(r.Context(), s)))
				return
			}

			writeErr(w, renkonerr.ScenarioHeaderMissingErr(ScenarioHeader))
		})
	}
}
