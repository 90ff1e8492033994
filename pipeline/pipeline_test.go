package pipeline_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/pipeline"
	"github.com/renkon/renkon/request"
	"github.com/renkon/renkon/scenario"
)

func accountsEndpoint() *endpoint.Endpoint {
	ep := endpoint.New(ident.EndpointID{}, http.MethodGet, "/accounts", "", request.ContentTypeJSON, request.ContentTypeJSON)
	ep.AddResponse(ident.New[ident.ResponseTag]("zero-balance"), endpoint.StaticJSON(boxed.Dict(map[string]boxed.Value{
		"balance": boxed.Int(0),
	})))
	ep.AddResponse(ident.New[ident.ResponseTag]("millionaire"), endpoint.StaticJSON(boxed.Dict(map[string]boxed.Value{
		"balance": boxed.Int(1000000),
	})))
	return ep
}

func testReq() request.Request {
	return request.Request{Method: http.MethodGet, Path: "/accounts", Header: make(http.Header), Query: make(url.Values)}
}

func balanceOf(t *testing.T, resp request.Response) int64 {
	t.Helper()
	v, ok := resp.Content.Get("balance")
	require.True(t, ok)
	n, _ := v.AsInt64()
	return n
}

func TestSingleActionRespondsEveryTime(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	configs := []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
	}
	p, err := pipeline.New(configs, reg)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resp, err := p.Handle(context.Background(), testReq(), request.Context{}, ep)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balanceOf(t, resp))
	}
}

func TestRoundRobinAcrossTwoResponses(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	configs := []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	}
	p, err := pipeline.New(configs, reg)
	require.NoError(t, err)

	resp1, err := p.Handle(context.Background(), testReq(), request.Context{}, ep)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balanceOf(t, resp1))

	resp2, err := p.Handle(context.Background(), testReq(), request.Context{}, ep)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), balanceOf(t, resp2))

	resp3, err := p.Handle(context.Background(), testReq(), request.Context{}, ep)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balanceOf(t, resp3))
}

func TestWaitThenRespondConsumedInSameCall(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	configs := []action.ActionConfiguration{
		action.NewWaitConfiguration(5 * time.Millisecond),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	}
	p, err := pipeline.New(configs, reg)
	require.NoError(t, err)

	start := time.Now()
	resp, err := p.Handle(context.Background(), testReq(), request.Context{}, ep)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.Equal(t, int64(1000000), balanceOf(t, resp))

	resp2, err := p.Handle(context.Background(), testReq(), request.Context{}, ep)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.Equal(t, int64(1000000), balanceOf(t, resp2))
}

func TestEmptyActionsFails(t *testing.T) {
	reg := action.NewDefaultRegistry()
	p, err := pipeline.New(nil, reg)
	require.NoError(t, err)

	_, err = p.Handle(context.Background(), testReq(), request.Context{}, accountsEndpoint())
	require.Error(t, err)
}

func TestPipelineLoopsWithoutResponse(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	configs := []action.ActionConfiguration{
		action.NewWaitConfiguration(time.Millisecond),
		action.NewWaitConfiguration(time.Millisecond),
	}
	p, err := pipeline.New(configs, reg)
	require.NoError(t, err)

	_, err = p.Handle(context.Background(), testReq(), request.Context{}, ep)
	require.Error(t, err)
}

func TestReconfigurationResetsCursor(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	sc := scenario.New(ident.New[ident.ScenarioTag]("s"), "", "")
	sc.SetActions(ep.ID, []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	})

	r := pipeline.NewResponder(ep, reg)
	sessionID := ident.New[ident.SessionTag]("sess-1")

	resp1, err := r.Respond(context.Background(), testReq(), request.Context{}, sc, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balanceOf(t, resp1))

	// Reconfigure the scenario's action list for this endpoint.
	sc.SetActions(ep.ID, []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	})

	resp2, err := r.Respond(context.Background(), testReq(), request.Context{}, sc, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), balanceOf(t, resp2))
}

func TestDistinctSessionsHaveIndependentCursors(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	sc := scenario.New(ident.New[ident.ScenarioTag]("s"), "", "")
	sc.SetActions(ep.ID, []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	})

	r := pipeline.NewResponder(ep, reg)
	sessionA := ident.New[ident.SessionTag]("a")
	sessionB := ident.New[ident.SessionTag]("b")

	respA, err := r.Respond(context.Background(), testReq(), request.Context{}, sc, sessionA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balanceOf(t, respA))

	respB, err := r.Respond(context.Background(), testReq(), request.Context{}, sc, sessionB)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balanceOf(t, respB), "session B's cursor starts fresh, independent of session A")
}

func TestEndpointMissingFromScenarioFails(t *testing.T) {
	ep := accountsEndpoint()
	reg := action.NewDefaultRegistry()
	sc := scenario.New(ident.New[ident.ScenarioTag]("empty"), "", "")

	r := pipeline.NewResponder(ep, reg)
	_, err := r.Respond(context.Background(), testReq(), request.Context{}, sc, ident.New[ident.SessionTag]("s"))
	require.Error(t, err)
}
