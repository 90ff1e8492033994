// Package scenario implements the scenario registry (C6): a named mapping
// from each endpoint id to an ordered action configuration list, plus
// scalar options, held in a registry that is read-write and safe for
// concurrent access even while the server is running.
package scenario

import (
	"math"
	"time"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/ident"
)

// Options are the recognized scenario-level scalar options.
type Options struct {
	// MaximumStreamLifetime bounds the lifetime of long-lived streaming
	// responses. Defaults to the maximum representable duration.
	MaximumStreamLifetime time.Duration
	// DelayAllRequests, when set, is applied once per request before
	// pipeline entry. It is wholly independent of any wait action inside
	// the pipeline itself.
	DelayAllRequests *time.Duration
	// CustomOptions is a user-extensible mapping available to actions via
	// request.Context.Options.
	CustomOptions map[string]boxed.Value
}

// DefaultOptions returns the documented defaults: no artificial stream
// lifetime cap, no up-front delay.
func DefaultOptions() Options {
	return Options{
		MaximumStreamLifetime: time.Duration(math.MaxInt64),
		CustomOptions:         make(map[string]boxed.Value),
	}
}

// Scenario maps each endpoint id to an ordered action configuration list,
// plus options. Scenario ids are globally unique within a server (the
// Scenario Identity Invariant) — enforced by Registry.Add.
type Scenario struct {
	ID          ident.ScenarioID  `json:"id" yaml:"id"`
	DisplayName string            `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Options     Options           `json:"options,omitempty" yaml:"options,omitempty"`

	Endpoints map[string][]action.ActionConfiguration `json:"endpoints" yaml:"endpoints"`
}

// New builds a Scenario with default options and an empty endpoint map.
func New(id ident.ScenarioID, displayName, description string) *Scenario {
	return &Scenario{
		ID:          id,
		DisplayName: displayName,
		Description: description,
		Options:     DefaultOptions(),
		Endpoints:   make(map[string][]action.ActionConfiguration),
	}
}

// SetActions assigns the ordered action list for an endpoint.
func (s *Scenario) SetActions(endpointID ident.EndpointID, actions []action.ActionConfiguration) {
	s.Endpoints[endpointID.String()] = actions
}

// ActionsFor returns the action list configured for an endpoint, if any.
func (s *Scenario) ActionsFor(endpointID ident.EndpointID) ([]action.ActionConfiguration, bool) {
	actions, ok := s.Endpoints[endpointID.String()]
	return actions, ok
}
