package action

import (
	"context"
	"math"
	"time"

	"github.com/renkon/renkon/boxed"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/ident"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/request"
)

// Built-in action ids.
var (
	ReturnResponseID      = ident.New[ident.ActionTag]("return-response")
	WaitID                = ident.New[ident.ActionTag]("wait")
	ConditionalResponseID = ident.New[ident.ActionTag]("conditional-response")
)

// NewReturnResponseConfiguration builds the ActionConfiguration for a
// return-response step.
func NewReturnResponseConfiguration(responseID ident.ResponseID) ActionConfiguration {
	return ActionConfiguration{
		ID: ReturnResponseID,
		Configuration: map[string]boxed.Value{
			"response-id": boxed.String(responseID.String()),
		},
	}
}

// ReturnResponseType is the built-in "return-response" action type.
type ReturnResponseType struct{}

func (ReturnResponseType) ID() ident.ActionID { return ReturnResponseID }

func (ReturnResponseType) Instantiate(cfg ActionConfiguration) (Action, error) {
	v, ok := cfg.Get("response-id")
	if !ok {
		return nil, renkonerr.ConfigurationPropertyMissErr("response-id")
	}
	id, ok := v.AsString()
	if !ok {
		return nil, renkonerr.ConfigurationTypeMismatchErr("response-id", "string")
	}
	return &returnResponseAction{responseID: ident.New[ident.ResponseTag](id), cfg: cfg}, nil
}

type returnResponseAction struct {
	responseID ident.ResponseID
	cfg        ActionConfiguration
}

func (a *returnResponseAction) Configuration() ActionConfiguration { return a.cfg }

func (a *returnResponseAction) Perform(_ context.Context, req request.Request, rc request.Context, ep *endpoint.Endpoint) (request.Response, bool, error) {
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

// NewWaitConfiguration builds the ActionConfiguration for a wait step.
func NewWaitConfiguration(d time.Duration) ActionConfiguration {
	seconds := int64(d / time.Second)
	remainder := d - time.Duration(seconds)*time.Second
	attoseconds := int64(remainder) * 1_000_000_000 // 1 ns = 1e9 attoseconds
	return ActionConfiguration{
		ID: WaitID,
		Configuration: map[string]boxed.Value{
			"duration.seconds":     boxed.Int(seconds),
			"duration.attoseconds": boxed.Int(attoseconds),
		},
	}
}

// WaitType is the built-in "wait" action type.
type WaitType struct{}

func (WaitType) ID() ident.ActionID { return WaitID }

func (WaitType) Instantiate(cfg ActionConfiguration) (Action, error) {
	secondsV, ok := cfg.Get("duration.seconds")
	if !ok {
		return nil, renkonerr.ConfigurationPropertyMissErr("duration.seconds")
	}
	seconds, ok := secondsV.AsInt64()
	if !ok {
		return nil, renkonerr.ConfigurationTypeMismatchErr("duration.seconds", "int")
	}

	attosecondsV, ok := cfg.Get("duration.attoseconds")
	if !ok {
		return nil, renkonerr.ConfigurationPropertyMissErr("duration.attoseconds")
	}
	attoseconds, ok := attosecondsV.AsInt64()
	if !ok {
		return nil, renkonerr.ConfigurationTypeMismatchErr("duration.attoseconds", "int")
	}

	return &waitAction{duration: durationFrom(seconds, attoseconds), cfg: cfg}, nil
}

// durationFrom composes seconds and attoseconds into a time.Duration,
// clamping to the platform's maximum sleep bound on overflow rather than
// wrapping, per the design note on numeric safety.
func durationFrom(seconds, attoseconds int64) time.Duration {
	if seconds > int64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(math.MaxInt64)
	}
	nanosFromSeconds := seconds * int64(time.Second)
	nanosFromAttos := attoseconds / 1_000_000_000
	total := nanosFromSeconds + nanosFromAttos
	if total < nanosFromSeconds {
		// Overflowed past int64; clamp.
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(total)
}

type waitAction struct {
	duration time.Duration
	cfg      ActionConfiguration
}

func (a *waitAction) Configuration() ActionConfiguration { return a.cfg }

func (a *waitAction) Perform(ctx context.Context, _ request.Request, _ request.Context, _ *endpoint.Endpoint) (request.Response, bool, error) {
	timer := time.NewTimer(a.duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return request.Response{}, true, nil
	case <-ctx.Done():
		return request.Response{}, false, ctx.Err()
	}
}
