package action

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/request"
)

// NewConditionalResponseConfiguration builds the ActionConfiguration for a
// conditional-response step.
func NewConditionalResponseConfiguration(when string, responseID ident.ResponseID) ActionConfiguration {
	return ActionConfiguration{
		ID: ConditionalResponseID,
		Configuration: map[string]boxed.Value{
			"when":        boxed.String(when),
			"response-id": boxed.String(responseID.String()),
		},
	}
}

// ConditionalResponseType is the supplemental "conditional-response"
// built-in: it behaves like return-response when its boolean expression
// evaluates truthy against the request, and otherwise defers to the next
// action. Compiled expr-lang/expr programs are cached behind a
// sync.RWMutex map, the same pattern the codebase's custom-operation
// executor uses for its own expression cache.
type ConditionalResponseType struct{}

func (ConditionalResponseType) ID() ident.ActionID { return ConditionalResponseID }

var conditionalEnvShape = map[string]interface{}{
	"method": "",
	"path":   "",
	"header": func(string) string { return "" },
	"query":  func(string) string { return "" },
}

func (ConditionalResponseType) Instantiate(cfg ActionConfiguration) (Action, error) {
	whenV, ok := cfg.Get("when")
	if !ok {
		return nil, renkonerr.ConfigurationPropertyMissErr("when")
	}
	when, ok := whenV.AsString()
	if !ok {
		return nil, renkonerr.ConfigurationTypeMismatchErr("when", "string")
	}

	responseIDV, ok := cfg.Get("response-id")
	if !ok {
		return nil, renkonerr.ConfigurationPropertyMissErr("response-id")
	}
	responseID, ok := responseIDV.AsString()
	if !ok {
		return nil, renkonerr.ConfigurationTypeMismatchErr("response-id", "string")
	}

	program, err := compileCondition(when)
	if err != nil {
		return nil, renkonerr.New(renkonerr.ConfigurationTypeMismatch, http.StatusInternalServerError, "condition %q failed to compile: %v", when, err)
	}

	return &conditionalResponseAction{
		program:    program,
		responseID: ident.New[ident.ResponseTag](responseID),
		cfg:        cfg,
	}, nil
}

type conditionalResponseAction struct {
	program    *vm.Program
	responseID ident.ResponseID
	cfg        ActionConfiguration
}

func (a *conditionalResponseAction) Configuration() ActionConfiguration { return a.cfg }

func (a *conditionalResponseAction) Perform(_ context.Context, req request.Request, rc request.Context, ep *endpoint.Endpoint) (request.Response, bool, error) {
	env := conditionEnv(req)
	out, err := expr.Run(a.program, env)
	if err != nil {
		return request.Response{}, false, renkonerr.New(renkonerr.ConfigurationTypeMismatch, http.StatusInternalServerError, "condition evaluation failed: %v", err)
	}
	truthy, ok := out.(bool)
	if !ok {
		return request.Response{}, false, renkonerr.ConfigurationTypeMismatchErr("when", "bool result")
	}
	if !truthy {
		return request.Response{}, true, nil
	}

	factory, ok := ep.Resolve(a.responseID)
	if !ok {
		return request.Response{}, false, renkonerr.ResponseNotFoundErr(a.responseID.String())
	}
	resp, err := factory(req, rc)
	if err != nil {
		return request.Response{}, false, err
	}
	return resp, false, nil
}

func conditionEnv(req request.Request) map[string]interface{} {
	return map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"header": func(name string) string { return req.Header.Get(name) },
		"query":  func(name string) string { return req.Query.Get(name) },
	}
}

var (
	programMu    sync.RWMutex
	programCache = make(map[string]*vm.Program)
)

func compileCondition(expression string) (*vm.Program, error) {
	programMu.RLock()
	if p, ok := programCache[expression]; ok {
		programMu.RUnlock()
		return p, nil
	}
	programMu.RUnlock()

	program, err := expr.Compile(expression, expr.Env(conditionalEnvShape), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	programMu.Lock()
	if existing, ok := programCache[expression]; ok {
		programMu.Unlock()
		return existing, nil
	}
	programCache[expression] = program
	programMu.Unlock()

	return program, nil
}
