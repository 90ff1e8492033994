// Package renkonerr implements the error taxonomy: a fixed set of error
// kinds, each carrying the HTTP status it surfaces as and a human-readable
// reason. Modeled on the shape of typed errors elsewhere in the codebase
// (StatusCodeError/HintError-style interfaces, one converter to a wire
// response), collapsed into a single struct with a Kind enum since every
// kind here shares the same {message, status} shape.
package renkonerr

import (
	"fmt"
	"net/http"
)

// Kind identifies one row of the error taxonomy.
type Kind string

const (
	ScenarioHeaderMissing      Kind = "scenario-header-missing"
	ScenarioUnknown            Kind = "scenario-unknown"
	EndpointNotInScenario      Kind = "endpoint-not-in-scenario"
	NoActionsConfigured        Kind = "no-actions-configured"
	UnknownActionType          Kind = "unknown-action-type"
	ResponseNotFound           Kind = "response-not-found"
	PipelineLooped             Kind = "pipeline-looped"
	ConfigurationPropertyMiss  Kind = "configuration-property-missing"
	ConfigurationTypeMismatch  Kind = "configuration-type-mismatch"
	CodecError                 Kind = "codec-error"
	RegistrationWhileRunning   Kind = "registration-while-running"
	UnsupportedMediaType       Kind = "unsupported-media-type"
)

var defaultStatus = map[Kind]int{
	ScenarioHeaderMissing:     http.StatusForbidden,
	ScenarioUnknown:           http.StatusForbidden,
	EndpointNotInScenario:     http.StatusInternalServerError,
	NoActionsConfigured:       http.StatusNotFound,
	UnknownActionType:         http.StatusInternalServerError,
	ResponseNotFound:          http.StatusInternalServerError,
	PipelineLooped:            http.StatusInternalServerError,
	ConfigurationPropertyMiss: http.StatusInternalServerError,
	ConfigurationTypeMismatch: http.StatusInternalServerError,
	CodecError:                http.StatusBadRequest,
	RegistrationWhileRunning:  http.StatusInternalServerError,
	UnsupportedMediaType:      http.StatusUnsupportedMediaType,
}

// Error is a taxonomy error: a Kind, a surfaced HTTP status, and a reason.
type Error struct {
	Kind   Kind
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// StatusCode satisfies the StatusCodeError convention used across the
// codebase for errors that know their own HTTP surface.
func (e *Error) StatusCode() int { return e.Status }

// New builds an Error of the given kind, using the taxonomy's default
// status unless status is overridden (pass 0 to use the default).
func New(kind Kind, status int, format string, args ...any) *Error {
	if status == 0 {
		status = defaultStatus[kind]
	}
	return &Error{Kind: kind, Status: status, Reason: fmt.Sprintf(format, args...)}
}

// Response-surface helpers for the taxonomy's most common call sites.

func ScenarioHeaderMissingErr(headerName string) *Error {
	return New(ScenarioHeaderMissing, 0, "no scenario selected: send header %q or configure a default scenario", headerName)
}

func ScenarioUnknownErr(id string) *Error {
	return New(ScenarioUnknown, 0, "'%s' does not exist", id)
}

func EndpointNotInScenarioErr(endpointID, scenarioID string) *Error {
	return New(EndpointNotInScenario, 0, "endpoint %q has no action list in scenario %q", endpointID, scenarioID)
}

func NoActionsConfiguredErr() *Error {
	return New(NoActionsConfigured, 0, "no actions configured for this endpoint in the selected scenario")
}

func UnknownActionTypeErr(id string) *Error {
	return New(UnknownActionType, 0, "action type %q is not registered", id)
}

func ResponseNotFoundErr(id string) *Error {
	return New(ResponseNotFound, 0, "response %q is not declared on this endpoint", id)
}

func PipelineLoopedErr() *Error {
	return New(PipelineLooped, 0, "pipeline looped through all actions without producing a response")
}

func ConfigurationPropertyMissErr(key string) *Error {
	return New(ConfigurationPropertyMiss, 0, "action configuration is missing required key %q", key)
}

func ConfigurationTypeMismatchErr(key string, wantKind string) *Error {
	return New(ConfigurationTypeMismatch, 0, "action configuration key %q could not be unboxed as %s", key, wantKind)
}

func CodecErr(status int, format string, args ...any) *Error {
	return New(CodecError, status, format, args...)
}

func RegistrationWhileRunningErr(op string) *Error {
	return New(RegistrationWhileRunning, 0, "cannot %s while running", op)
}

func UnsupportedMediaTypeErr(contentType string) *Error {
	return New(UnsupportedMediaType, 0, "unsupported content type %q for this endpoint", contentType)
}

// ErrorResponse is the wire shape written for any *Error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
	Kind   string `json:"kind"`
}

// ToErrorResponse converts any error into an ErrorResponse, defaulting
// unrecognized errors to an internal-error kind with status 500.
func ToErrorResponse(err error) (*ErrorResponse, int) {
	if e, ok := err.(*Error); ok {
		return &ErrorResponse{Error: string(e.Kind), Reason: e.Reason, Kind: string(e.Kind)}, e.Status
	}
	return &ErrorResponse{Error: "internal error", Reason: err.Error(), Kind: "internal"}, http.StatusInternalServerError
}

// WriteJSON converts err with ToErrorResponse and hands the result and its
// status code to encode, which writes the body.
func WriteJSON(w http.ResponseWriter, err error, encode func(http.ResponseWriter, int, any) error) error {
	resp, status := ToErrorResponse(err)
	return encode(w, status, resp)
}
