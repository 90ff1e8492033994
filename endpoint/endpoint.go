// Package endpoint implements the declarative endpoint registry: immutable
// (method, path) routes with a fixed catalogue of named response
// factories, content-type tagging, and the registration API's
// frozen-after-run mutability boundary.
package endpoint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/request"
)

// ResponseFactory produces a Response for a given request, either from
// fixed (static) data or by running a closure (dynamic) against the
// request and context.
type ResponseFactory func(req request.Request, rc request.Context) (request.Response, error)

// Endpoint is an immutable (method, path) route with its response
// catalogue. Endpoints are frozen once registered: id is derived as
// "<METHOD>-<path>" when not supplied, enforcing the Endpoint Identity
// Invariant that no two registered endpoints share (method, path).
type Endpoint struct {
	ID                  ident.EndpointID
	Method              string
	PathPattern         string
	Description         string
	Responses           map[ident.ResponseID]ResponseFactory
	RequestContentType  request.ContentType
	ResponseContentType request.ContentType
}

// DefaultID computes the "<METHOD>-<path>" identity used when an endpoint
// is declared without an explicit id.
func DefaultID(method, pathPattern string) ident.EndpointID {
	return ident.New[ident.EndpointTag](fmt.Sprintf("%s-%s", method, pathPattern))
}

// New constructs an Endpoint. If id is the zero value, DefaultID is used.
func New(id ident.EndpointID, method, pathPattern, description string, requestCT, responseCT request.ContentType) *Endpoint {
	if id.IsZero() {
		id = DefaultID(method, pathPattern)
	}
	return &Endpoint{
		ID:                  id,
		Method:              method,
		PathPattern:         pathPattern,
		Description:         description,
		Responses:           make(map[ident.ResponseID]ResponseFactory),
		RequestContentType:  requestCT,
		ResponseContentType: responseCT,
	}
}

// AddResponse registers a named response factory. Call this only while
// building the endpoint, before it is handed to the registry — the
// registry treats registered endpoints (and therefore their response
// tables) as immutable.
func (e *Endpoint) AddResponse(id ident.ResponseID, factory ResponseFactory) *Endpoint {
	e.Responses[id] = factory
	return e
}

// Resolve looks up a response factory by id.
func (e *Endpoint) Resolve(id ident.ResponseID) (ResponseFactory, bool) {
	f, ok := e.Responses[id]
	return f, ok
}

// Registry holds the immutable-after-Freeze set of registered endpoints,
// keyed by endpoint id, with an insertion-ordered list per method. Route
// resolution is not done here: the server builds a path.Matcher per method
// from All(), which gives first-registered-wins matching.
type Registry struct {
	mu       sync.RWMutex
	frozen   bool
	byID     map[string]*Endpoint
	byMethod map[string][]*Endpoint // insertion-ordered, per method
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*Endpoint),
		byMethod: make(map[string][]*Endpoint),
	}
}

// Add registers an endpoint. Returns an error if the registry is frozen or
// if (method, path) collides with an already-registered endpoint (the
// Endpoint Identity Invariant).
func (r *Registry) Add(e *Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("endpoint registry is frozen: cannot add endpoints while running")
	}
	if _, exists := r.byID[e.ID.String()]; exists {
		return fmt.Errorf("endpoint %q already registered", e.ID.String())
	}
	for _, other := range r.byMethod[e.Method] {
		if other.PathPattern == e.PathPattern {
			return fmt.Errorf("endpoint %s %s already registered as %q", e.Method, e.PathPattern, other.ID.String())
		}
	}
	r.byID[e.ID.String()] = e
	r.byMethod[e.Method] = append(r.byMethod[e.Method], e)
	return nil
}

// Freeze marks the registry read-only. Per the concurrency model, once
// frozen no further locking is required to read it.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// IsFrozen reports whether Freeze has been called.
func (r *Registry) IsFrozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get looks up an endpoint by id.
func (r *Registry) Get(id ident.EndpointID) (*Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id.String()]
	return e, ok
}

// All returns every registered endpoint, grouped by method in registration
// order — used by the server façade to install one route per endpoint.
func (r *Registry) All() []*Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Endpoint
	for _, method := range sortedMethodKeys(r.byMethod) {
		all = append(all, r.byMethod[method]...)
	}
	return all
}

func sortedMethodKeys(m map[string][]*Endpoint) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic iteration; registration order within a method is
	// preserved by byMethod's append-only slice.
	sort.Strings(keys)
	return keys
}
