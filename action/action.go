// Package action implements the unit of pipeline work (C5): the Action
// interface, its serializable ActionConfiguration, and the built-in action
// types (return-response, wait, and the supplemental conditional-response).
package action

import (
	"context"

	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/request"
)

// Action is a configured behavior executed inside one pipeline step. Its
// three possible outcomes: return a response (absent=false, err=nil) which
// terminates the pipeline; propagate an error (err != nil) which also
// terminates it; or return absent (absent=true, err=nil), which advances
// the pipeline to the next action.
type Action interface {
	Perform(ctx context.Context, req request.Request, rc request.Context, ep *endpoint.Endpoint) (resp request.Response, absent bool, err error)
	// Configuration reconstructs the ActionConfiguration this instance was
	// built from, satisfying the configuration round-trip law.
	Configuration() ActionConfiguration
}

// ActionConfiguration is the serializable, structurally comparable
// description of one pipeline step.
type ActionConfiguration struct {
	ID            ident.ActionID        `json:"id" yaml:"id"`
	Configuration map[string]boxed.Value `json:"configuration" yaml:"configuration"`
}

// Equal reports structural equality: same action id, same configuration
// mapping (order-independent).
func (c ActionConfiguration) Equal(o ActionConfiguration) bool {
	return c.ID.String() == o.ID.String() && boxed.EqualDicts(c.Configuration, o.Configuration)
}

// ConfigurationsEqual reports whether two ordered ActionConfiguration
// lists are element-wise structurally equal — the pipeline compatibility
// check.
func ConfigurationsEqual(a, b []ActionConfiguration) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Get fetches a configuration value by key.
func (c ActionConfiguration) Get(key string) (boxed.Value, bool) {
	v, ok := c.Configuration[key]
	return v, ok
}
