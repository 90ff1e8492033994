// Command renkon is a demo driver for the embeddable mock server core: it
// wires up the literal /accounts example from the component design and
// serves it over HTTP until interrupted.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/renkon/renkon/action"
	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/pkg/logging"
	"github.com/renkon/renkon/request"
	"github.com/renkon/renkon/scenario"
	"github.com/renkon/renkon/server"
)

// Version is set via -ldflags at build time.
var Version = "dev"

var (
	hostname string
	port     int
)

func main() {
	root := &cobra.Command{
		Use:     "renkon",
		Short:   "Renkon embeddable mock API server demo driver",
		Version: Version,
		RunE:    runServe,
	}
	root.Flags().StringVar(&hostname, "hostname", "127.0.0.1", "address to bind the demo server to")
	root.Flags().IntVar(&port, "port", 8080, "port to bind the demo server to")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatText})

	s := server.New(server.WithLogger(log))

	accounts := endpoint.New(ident.EndpointID{}, http.MethodGet, "/accounts", "returns the authenticated customer's accounts", request.ContentTypeJSON, request.ContentTypeJSON)
	accounts.AddResponse(ident.New[ident.ResponseTag]("zero-balance"), endpoint.StaticJSON(boxed.Array(
		boxed.Dict(map[string]boxed.Value{
			"name":    boxed.String("Annabelle Citizen"),
			"bsb":     boxed.String("000123"),
			"number":  boxed.String("123456789"),
			"balance": boxed.Int(0),
		}),
	)))
	accounts.AddResponse(ident.New[ident.ResponseTag]("millionaire"), endpoint.StaticJSON(boxed.Array(
		boxed.Dict(map[string]boxed.Value{
			"name":    boxed.String("Annabelle Citizen"),
			"bsb":     boxed.String("000123"),
			"number":  boxed.String("123456789"),
			"balance": boxed.Int(1000000),
		}),
	)))
	if err := s.AddEndpoint(accounts); err != nil {
		return fmt.Errorf("register /accounts endpoint: %w", err)
	}

	flatBroke := scenario.New(ident.New[ident.ScenarioTag]("flat-broke"), "Flat Broke", "always reports a zero balance")
	flatBroke.SetActions(accounts.ID, []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
	})
	if err := s.AddScenario(flatBroke); err != nil {
		return fmt.Errorf("register flat-broke scenario: %w", err)
	}

	roundRobin := scenario.New(ident.New[ident.ScenarioTag]("round-robin"), "Round Robin", "alternates between zero and a million")
	roundRobin.SetActions(accounts.ID, []action.ActionConfiguration{
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("zero-balance")),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	})
	if err := s.AddScenario(roundRobin); err != nil {
		return fmt.Errorf("register round-robin scenario: %w", err)
	}

	superRich := scenario.New(ident.New[ident.ScenarioTag]("super-rich"), "Super Rich", "waits two seconds, then reports a million")
	superRich.SetActions(accounts.ID, []action.ActionConfiguration{
		action.NewWaitConfiguration(2 * time.Second),
		action.NewReturnResponseConfiguration(ident.New[ident.ResponseTag]("millionaire")),
	})
	if err := s.AddScenario(superRich); err != nil {
		return fmt.Errorf("register super-rich scenario: %w", err)
	}

	s.SetDefaultScenario(flatBroke.ID)

	addr := fmt.Sprintf("%s:%d", hostname, port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(addr) }()

	select {
	case <-ctx.Done():
		log.Info("shutting down", "reason", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server startup failed: %w", err)
		}
		return nil
	}
}
