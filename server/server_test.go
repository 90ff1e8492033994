package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/middleware"
	"github.com/renkon/renkon/request"
	"github.com/renkon/renkon/scenario"
	"github.com/renkon/renkon/server"
)

func newAccountsServer(t *testing.T) *server.Server {
	t.Helper()
	s := server.New()

	ep := endpoint.New(ident.EndpointID{}, http.MethodGet, "/accounts", "", request.ContentTypeJSON, request.ContentTypeJSON)
	ep.AddResponse(ident.New[ident.ResponseTag]("zero-balance"), endpoint.StaticJSON(boxed.Array(
		boxed.Dict(map[string]boxed.Value{
			"name":    boxed.String("Annabelle Citizen"),
			"bsb":     boxed.String("000123"),
			"number":  boxed.String("123456789"),
			"balance": boxed.Int(0),
		}),
	)))
	ep.AddResponse(ident.New[ident.ResponseTag]("millionaire"), endpoint.StaticJSON(boxed.Array(
		boxed.Dict(map[string]boxed.Value{
			"name":    boxed.String("Annabelle Citizen"),
			"bsb":     boxed.String("000123"),
			"number":  boxed.String("123456789"),
			"balance": boxed.Int(1000000),
		}),
	)))
	require.NoError(t, s.AddEndpoint(ep))
	return s
}

func accountsEndpointID() ident.EndpointID {
	return endpoint.DefaultID(http.MethodGet, "/accounts")
}

func addScenario(t *testing.T, s *server.Server, id string, configs ...action.ActionConfiguration) {
	t.Helper()
	sc := scenario.New(ident.New[ident.ScenarioTag](id), "", "")
	sc.SetActions(accountsEndpointID(), configs)
	require.NoError(t, s.AddScenario(sc))
}

// serveAndRequest starts s.Run on an ephemeral port, issues one GET
// /accounts request with the given headers, and registers cleanup to stop
// the server afterward.
func serveAndRequest(t *testing.T, s *server.Server, headers map[string]string) *http.Response {
	t.Helper()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run("127.0.0.1:0") }()

	var addr string
	for i := 0; i < 100; i++ {
		addr = s.Addr()
		if addr != "" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotEmpty(t, addr, "server did not start listening in time")

	req, err := http.NewRequest(http.MethodGet, "http://"+addr+"/accounts", nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
		<-errCh
	})

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSingleResponseScenario(t *testing.T) {
	s := newAccountsServer(t)
	addScenario(t, s, "flat-broke", action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")))

	resp := serveAndRequest(t, s, map[string]string{middleware.ScenarioHeader: "flat-broke"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := decodeBody(t, resp)
	require.Len(t, body, 1)
	assert.Equal(t, "Annabelle Citizen", body[0]["name"])
	assert.Equal(t, float64(0), body[0]["balance"])
}

func TestRoundRobinScenarioSameSession(t *testing.T) {
	s := newAccountsServer(t)
	addScenario(t, s, "round-robin",
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run("127.0.0.1:0") }()
	var addr string
	for i := 0; i < 100; i++ {
		addr = s.Addr()
		if addr != "" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotEmpty(t, addr)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
		<-errCh
	})

	balances := make([]float64, 0, 3)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, "http://"+addr+"/accounts", nil)
		require.NoError(t, err)
		req.Header.Set(middleware.ScenarioHeader, "round-robin")
		req.Header.Set(middleware.SessionHeader, "same-session")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body := decodeBody(t, resp)
		balances = append(balances, body[0]["balance"].(float64))
	}

	assert.Equal(t, []float64{0, 1000000, 0}, balances)
}

func TestWaitThenRespondTiming(t *testing.T) {
	s := newAccountsServer(t)
	addScenario(t, s, "super-rich",
		action.NewWaitConfiguration(80*time.Millisecond),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run("127.0.0.1:0") }()
	var addr string
	for i := 0; i < 100; i++ {
		addr = s.Addr()
		if addr != "" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotEmpty(t, addr)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
		<-errCh
	})

	doReq := func() (time.Duration, *http.Response) {
		req, err := http.NewRequest(http.MethodGet, "http://"+addr+"/accounts", nil)
		require.NoError(t, err)
		req.Header.Set(middleware.ScenarioHeader, "super-rich")
		req.Header.Set(middleware.SessionHeader, "s1")
		start := time.Now()
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return time.Since(start), resp
	}

	elapsed1, resp1 := doReq()
	assert.GreaterOrEqual(t, elapsed1, 80*time.Millisecond)
	body1 := decodeBody(t, resp1)
	assert.Equal(t, float64(1000000), body1[0]["balance"])

	elapsed2, resp2 := doReq()
	assert.Less(t, elapsed2, 50*time.Millisecond)
	body2 := decodeBody(t, resp2)
	assert.Equal(t, float64(1000000), body2[0]["balance"])
}

func TestMissingScenarioHeaderWithoutDefaultIs403(t *testing.T) {
	s := newAccountsServer(t)
	resp := serveAndRequest(t, s, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUnknownScenarioIs403(t *testing.T) {
	s := newAccountsServer(t)
	resp := serveAndRequest(t, s, map[string]string{middleware.ScenarioHeader: "ghost"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "ghost")
}

func TestConcurrentSessionsIndependentRoundRobin(t *testing.T) {
	s := newAccountsServer(t)
	addScenario(t, s, "concurrent",
		action.NewWaitConfiguration(60*time.Millisecond),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run("127.0.0.1:0") }()
	var addr string
	for i := 0; i < 100; i++ {
		addr = s.Addr()
		if addr != "" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotEmpty(t, addr)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
		<-errCh
	})

	start := time.Now()
	var wg sync.WaitGroup
	for _, sess := range []string{"sess-a", "sess-b"} {
		wg.Add(1)
		go func(sess string) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodGet, "http://"+addr+"/accounts", nil)
			require.NoError(t, err)
			req.Header.Set(middleware.ScenarioHeader, "concurrent")
			req.Header.Set(middleware.SessionHeader, sess)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
		}(sess)
	}
	wg.Wait()

	assert.Less(t, time.Since(start), 150*time.Millisecond, "sessions must not serialize behind one another")
}
