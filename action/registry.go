package action

import (
	"fmt"
	"sync"

	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/renkonerr"
)

// ActionType is a factory for one kind of Action, keyed by its action id
// (e.g. "return-response", "wait"). The pipeline engine consults a
// Registry to turn an ActionConfiguration's id into a runnable Action.
type ActionType interface {
	ID() ident.ActionID
	Instantiate(cfg ActionConfiguration) (Action, error)
}

// Registry holds the action-type table. Like the endpoint registry, it is
// read-only after Freeze (matching the concurrency model's "endpoint
// registry and action-type registry are read-only after run()" rule).
type Registry struct {
	mu     sync.RWMutex
	frozen bool
	types  map[string]ActionType
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]ActionType)}
}

// NewDefaultRegistry builds a registry pre-populated with the built-in
// action types: return-response, wait, and conditional-response.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Add(ReturnResponseType{})
	_ = r.Add(WaitType{})
	_ = r.Add(ConditionalResponseType{})
	return r
}

// Add registers an action type. Returns an error if the registry is
// frozen or the id is already registered.
func (r *Registry) Add(t ActionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("action-type registry is frozen: cannot add actions while running")
	}
	key := t.ID().String()
	if _, exists := r.types[key]; exists {
		return fmt.Errorf("action type %q already registered", key)
	}
	r.types[key] = t
	return nil
}

// Freeze marks the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Instantiate builds an Action from a configuration, looking up its type
// by ActionConfiguration.ID.
func (r *Registry) Instantiate(cfg ActionConfiguration) (Action, error) {
	r.mu.RLock()
	t, ok := r.types[cfg.ID.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, renkonerr.UnknownActionTypeErr(cfg.ID.String())
	}
	return t.Instantiate(cfg)
}

// Has reports whether an action id is registered.
func (r *Registry) Has(id ident.ActionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[id.String()]
	return ok
}
