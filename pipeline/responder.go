package pipeline

import (
	"context"
	"sync"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/request"
	"github.com/renkon/renkon/scenario"
)

// Responder is the per-endpoint object R(endpoint) from §4.6: it owns a
// mapping from session id to Pipeline, serialized by mu. Once a specific
// Pipeline is selected, further work on it (compatibility check, handle)
// proceeds under the Pipeline's own lock, not this one — distinct
// sessions never block each other.
type Responder struct {
	endpoint *endpoint.Endpoint
	registry *action.Registry

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

// NewResponder builds the responder for one endpoint.
func NewResponder(ep *endpoint.Endpoint, registry *action.Registry) *Responder {
	return &Responder{
		endpoint:  ep,
		registry:  registry,
		pipelines: make(map[string]*Pipeline),
	}
}

// Respond implements steps 3-5 of §4.6's per-endpoint responder: resolve
// the configured action list from the scenario, obtain a pipeline for the
// session (reusing a compatible one or rebuilding), and run it.
func (r *Responder) Respond(ctx context.Context, req request.Request, rc request.Context, s *scenario.Scenario, sessionID ident.SessionID) (request.Response, error) {
	actions, ok := s.ActionsFor(r.endpoint.ID)
	if !ok {
		return request.Response{}, renkonerr.EndpointNotInScenarioErr(r.endpoint.ID.String(), s.ID.String())
	}

	p, err := r.pipelineFor(sessionID, actions)
	if err != nil {
		return request.Response{}, err
	}

	return p.Handle(ctx, req, rc, r.endpoint)
}

// pipelineFor returns the existing pipeline for sessionID if it remains
// compatible with actions, else builds and stores a fresh one — the
// reconfiguration rule from §4.6: a structurally different action list
// resets the cursor to the pre-wrap sentinel. In-flight invocations on
// the old pipeline continue to completion since replacement only affects
// the map entry, not pipelines already handed to callers.
func (r *Responder) pipelineFor(sessionID ident.SessionID, actions []action.ActionConfiguration) (*Pipeline, error) {
	key := sessionID.String()

	r.mu.Lock()
	existing, ok := r.pipelines[key]
	r.mu.Unlock()

	if ok && existing.IsCompatible(actions) {
		return existing, nil
	}

	fresh, err := New(actions, r.registry)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.pipelines[key] = fresh
	r.mu.Unlock()

	return fresh, nil
}
