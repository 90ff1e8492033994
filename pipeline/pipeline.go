// Package pipeline implements the action pipeline engine (C8): the
// stateful, per-session cursor over an endpoint's configured action list,
// and the per-endpoint responder that owns one pipeline per session.
package pipeline

import (
	"context"
	"sync"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/request"
)

// Pipeline is an exclusion domain of its own: compatibility checks and
// handling are linearized by mu, but distinct pipelines (distinct
// sessions) proceed independently in parallel.
type Pipeline struct {
	mu        sync.Mutex
	configs   []action.ActionConfiguration
	instances []action.Action
	cursor    int
}

// New builds a Pipeline from an ordered action configuration list,
// instantiating each step via registry. The cursor is initialized one
// step behind index 0 (mod count) so that the very first Handle call
// advances onto index 0.
func New(configs []action.ActionConfiguration, registry *action.Registry) (*Pipeline, error) {
	instances := make([]action.Action, len(configs))
	for i, cfg := range configs {
		inst, err := registry.Instantiate(cfg)
		if err != nil {
			return nil, err
		}
		instances[i] = inst
	}
	cursor := 0
	if len(configs) > 0 {
		cursor = len(configs) - 1
	}
	return &Pipeline{configs: configs, instances: instances, cursor: cursor}, nil
}

// IsCompatible reports whether configs is structurally equal to the
// action list this pipeline was built from — the reuse-vs-rebuild test
// the responder applies on every request.
func (p *Pipeline) IsCompatible(configs []action.ActionConfiguration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return action.ConfigurationsEqual(p.configs, configs)
}

// Handle runs the stateful round-robin dispatch: advance the cursor,
// invoke that action, and on absent keep advancing within the same call
// until a response is produced, an error is thrown, or the cursor has
// wrapped all the way back to its pre-call position (PipelineLooped).
func (p *Pipeline) Handle(ctx context.Context, req request.Request, rc request.Context, ep *endpoint.Endpoint) (request.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := len(p.instances)
	if count == 0 {
		return request.Response{}, renkonerr.NoActionsConfiguredErr()
	}

	started := p.cursor
	for {
		p.cursor = (p.cursor + 1) % count
		inst := p.instances[p.cursor]

		resp, absent, err := inst.Perform(ctx, req, rc, ep)
		if err != nil {
			return request.Response{}, err
		}
		if !absent {
			return resp, nil
		}
		if p.cursor == started {
			return request.Response{}, renkonerr.PipelineLoopedErr()
		}
	}
}
