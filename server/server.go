// Package server implements the server façade (C9): the public
// registration API, the running-state rule that freezes endpoint and
// action-type registration once the transport starts, and the request
// dispatch loop that ties middleware, routing, the pipeline engine, and
// codecs together.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/codec"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/middleware"
	"github.com/renkon/renkon/path"
	"github.com/renkon/renkon/pipeline"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/request"
	"github.com/renkon/renkon/scenario"
)

// Server is the public embedding surface: construct one, register
// endpoints/actions/scenarios, then Run it.
type Server struct {
	endpoints *endpoint.Registry
	actions   *action.Registry
	scenarios *scenario.Registry
	log       *slog.Logger
	codec     request.Codec

	mu         sync.RWMutex
	running    bool
	httpServer *http.Server
	listener   net.Listener

	matchers  map[string]*path.Matcher[*endpoint.Endpoint]
	responders map[string]*pipeline.Responder // keyed by endpoint id
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the operational logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCodec overrides the default JSON codec used to decode request
// bodies and encode response bodies for "json"-tagged endpoints.
func WithCodec(c request.Codec) Option {
	return func(s *Server) {
		if c != nil {
			s.codec = c
		}
	}
}

// New builds a Server with empty endpoint and scenario registries and an
// action-type registry holding the built-in action types.
func New(opts ...Option) *Server {
	s := &Server{
		endpoints: endpoint.NewRegistry(),
		actions:   action.NewDefaultRegistry(),
		scenarios: scenario.NewRegistry(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		codec:     codec.JSON{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEndpoint registers an endpoint. Fails if the server is running.
func (s *Server) AddEndpoint(e *endpoint.Endpoint) error {
	if s.IsRunning() {
		return renkonerr.RegistrationWhileRunningErr("add endpoints")
	}
	return s.endpoints.Add(e)
}

// AddEndpoints registers several endpoints in order, stopping at the
// first failure.
func (s *Server) AddEndpoints(eps ...*endpoint.Endpoint) error {
	for _, e := range eps {
		if err := s.AddEndpoint(e); err != nil {
			return err
		}
	}
	return nil
}

// AddAction registers an action type. Fails if the server is running.
func (s *Server) AddAction(t action.ActionType) error {
	if s.IsRunning() {
		return renkonerr.RegistrationWhileRunningErr("add actions")
	}
	return s.actions.Add(t)
}

// AddActions registers several action types in order, stopping at the
// first failure.
func (s *Server) AddActions(types ...action.ActionType) error {
	for _, t := range types {
		if err := s.AddAction(t); err != nil {
			return err
		}
	}
	return nil
}

// AddScenario registers a scenario. Allowed at any time, including while
// running.
func (s *Server) AddScenario(sc *scenario.Scenario) error {
	return s.scenarios.Add(sc)
}

// PutScenario registers or replaces a scenario. Allowed at any time.
func (s *Server) PutScenario(sc *scenario.Scenario) {
	s.scenarios.Put(sc)
}

// RemoveScenario removes a scenario. Allowed at any time, including while
// running.
func (s *Server) RemoveScenario(id ident.ScenarioID) {
	s.scenarios.Remove(id)
}

// SetDefaultScenario designates the scenario attached to requests that
// carry no scenario-selection header. Allowed at any time.
func (s *Server) SetDefaultScenario(id ident.ScenarioID) {
	s.scenarios.SetDefault(id)
}

// IsRunning reports whether Run has started serving and Stop has not yet
// been called.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the address the server is listening on. Only meaningful
// after Run has started listening.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run installs routes from the endpoint registry (one per endpoint),
// mounts the scenario and session middleware in that order, freezes the
// endpoint and action-type registries, and blocks serving HTTP until Stop
// is called or the listener errors. Re-entering Run after it has returned
// is undefined.
func (s *Server) Run(addr string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	s.endpoints.Freeze()
	s.actions.Freeze()

	s.matchers = make(map[string]*path.Matcher[*endpoint.Endpoint])
	s.responders = make(map[string]*pipeline.Responder)
	for _, ep := range s.endpoints.All() {
		m, ok := s.matchers[ep.Method]
		if !ok {
			m = path.NewMatcher[*endpoint.Endpoint]()
			s.matchers[ep.Method] = m
		}
		m.Match(ep.PathPattern, ep)
		s.responders[ep.ID.String()] = pipeline.NewResponder(ep, s.actions)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln

	handler := middleware.Chain(
		middleware.Scenario(s.scenarios, s.writeError),
		middleware.Session(),
	)(http.HandlerFunc(s.serveHTTP))

	s.httpServer = &http.Server{Handler: handler}
	s.running = true
	s.mu.Unlock()

	s.log.Info("renkon server starting", "addr", ln.Addr().String())
	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the transport.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	srv := s.httpServer
	s.running = false
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	_ = renkonerr.WriteJSON(w, err, func(w http.ResponseWriter, status int, v any) error {
		body, encErr := json.Marshal(v)
		if encErr != nil {
			return encErr
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, writeErr := w.Write(body)
		return writeErr
	})
}
