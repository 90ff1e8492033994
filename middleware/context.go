// Package middleware implements the scenario-selection and
// session-selection middleware (C7): both run before routing so that a
// routing target already knows its scenario and session by the time it
// reaches the per-endpoint responder.
package middleware

import (
	"context"

	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/scenario"
)

type contextKey int

const (
	scenarioKey contextKey = iota
	sessionKey
)

// WithScenario attaches a resolved scenario to ctx.
func WithScenario(ctx context.Context, s *scenario.Scenario) context.Context {
	return context.WithValue(ctx, scenarioKey, s)
}

// ScenarioFrom retrieves the scenario attached by the scenario-selection
// middleware, if any.
func ScenarioFrom(ctx context.Context) (*scenario.Scenario, bool) {
	s, ok := ctx.Value(scenarioKey).(*scenario.Scenario)
	return s, ok
}

// WithSession attaches a resolved session id to ctx.
func WithSession(ctx context.Context, id ident.SessionID) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// SessionFrom retrieves the session id attached by the session-selection
// middleware, if any.
func SessionFrom(ctx context.Context) (ident.SessionID, bool) {
	id, ok := ctx.Value(sessionKey).(ident.SessionID)
	return id, ok
}
