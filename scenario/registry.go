package scenario

import (
	"fmt"
	"sync"

	"github.com/renkon/renkon/ident"
)

// Registry holds the live set of scenarios plus the configured default.
// Unlike the endpoint and action-type registries, this one is read-write
// and safe for concurrent access for the server's entire running
// lifetime — add/remove/set-default are allowed at any time, including
// while running.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
	defaultID ident.ScenarioID
	hasDefault bool
}

// NewRegistry builds an empty scenario registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]*Scenario)}
}

// Add registers a scenario, enforcing the Scenario Identity Invariant
// (globally unique ids within a server).
func (r *Registry) Add(s *Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scenarios[s.ID.String()]; exists {
		return fmt.Errorf("scenario %q already registered", s.ID.String())
	}
	r.scenarios[s.ID.String()] = s
	return nil
}

// Put registers or replaces a scenario under its id.
func (r *Registry) Put(s *Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.ID.String()] = s
}

// Remove deletes a scenario. If it was the default, the default is
// cleared.
func (r *Registry) Remove(id ident.ScenarioID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scenarios, id.String())
	if r.hasDefault && r.defaultID.String() == id.String() {
		r.hasDefault = false
	}
}

// SetDefault designates a scenario as the default attached when a request
// carries no scenario-selection header. The scenario need not already be
// registered — SetDefault only records the id.
func (r *Registry) SetDefault(id ident.ScenarioID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultID = id
	r.hasDefault = true
}

// Get looks up a scenario by id, returning a point-in-time snapshot
// reference (callers must not mutate it).
func (r *Registry) Get(id ident.ScenarioID) (*Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[id.String()]
	return s, ok
}

// Default returns the configured default scenario, if any.
func (r *Registry) Default() (*Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.hasDefault {
		return nil, false
	}
	s, ok := r.scenarios[r.defaultID.String()]
	return s, ok
}

// HasDefault reports whether a default scenario id has been configured,
// independent of whether that scenario is currently registered.
func (r *Registry) HasDefault() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasDefault
}
