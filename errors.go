package weathercall

import (
	"errors"
	"fmt"
)

// Kind sentinels. Typed errors match them with errors.Is.
var (
	// ErrUnparseable is matched by a TemporalError whose expression could not be resolved.
	ErrUnparseable = errors.New("weathercall: unparseable date expression")

	// ErrLocationNotFound is matched by a GatewayError when geocoding returned no candidates.
	ErrLocationNotFound = errors.New("weathercall: location not found")

	// ErrHorizonExceeded is matched by a GatewayError when the date is outside the
	// provider's forecast window.
	ErrHorizonExceeded = errors.New("weathercall: date outside forecast horizon")

	// ErrIncompleteData is matched by a GatewayError when the provider omitted a field.
	ErrIncompleteData = errors.New("weathercall: incomplete forecast data")

	// ErrProviderUnavailable is matched by a GatewayError on transport or provider failure.
	ErrProviderUnavailable = errors.New("weathercall: forecast provider unavailable")

	// ErrUnmatchedToolCall is matched by a ProtocolError when a tool call could not be
	// answered.
	ErrUnmatchedToolCall = errors.New("weathercall: unmatched tool call")

	// ErrInvalidArguments is matched by an ArgumentError.
	ErrInvalidArguments = errors.New("weathercall: invalid tool call arguments")

	// ErrModelCall wraps failures of the language capability itself.
	ErrModelCall = errors.New("weathercall: model call failed")
)

// Failure codes carried in ToolResponse payloads.
const (
	CodeUnparseableDate     = "unparseable_date"
	CodeLocationNotFound    = "location_not_found"
	CodeHorizonExceeded     = "horizon_exceeded"
	CodeIncompleteData      = "incomplete_data"
	CodeProviderUnavailable = "provider_unavailable"
	CodeInvalidArguments    = "invalid_arguments"
	CodeUnsupportedCall     = "unsupported_call"
	CodeInternal            = "internal_error"
)

// TemporalErrorKind classifies temporal resolution failures.
type TemporalErrorKind string

// TemporalUnparseable is the only temporal failure kind: malformed, nonsensical or
// ambiguous input.
const TemporalUnparseable TemporalErrorKind = "Unparseable"

// TemporalError is returned by the temporal resolver.
type TemporalError struct {
	Kind       TemporalErrorKind
	Expression string
	Reason     string
}

func (e *TemporalError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("temporal: %s: %q", e.Kind, e.Expression)
	}
	return fmt.Sprintf("temporal: %s: %q: %s", e.Kind, e.Expression, e.Reason)
}

// Is matches ErrUnparseable.
func (e *TemporalError) Is(target error) bool {
	return target == ErrUnparseable && e.Kind == TemporalUnparseable
}

// GatewayErrorKind classifies forecast gateway failures.
type GatewayErrorKind string

const (
	GatewayLocationNotFound    GatewayErrorKind = "LocationNotFound"
	GatewayHorizonExceeded     GatewayErrorKind = "HorizonExceeded"
	GatewayIncompleteData      GatewayErrorKind = "IncompleteData"
	GatewayProviderUnavailable GatewayErrorKind = "ProviderUnavailable"
)

// GatewayError is returned by the forecast gateway. Err holds the provider-level cause
// and is for logs only; it is never shown to the model or the user.
type GatewayError struct {
	Kind     GatewayErrorKind
	Location string
	Date     string
	Detail   string
	Err      error
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("forecast: %s", e.Kind)
	if e.Location != "" {
		msg += fmt.Sprintf(" location=%q", e.Location)
	}
	if e.Date != "" {
		msg += " date=" + e.Date
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *GatewayError) Is(target error) bool {
	switch e.Kind {
	case GatewayLocationNotFound:
		return target == ErrLocationNotFound
	case GatewayHorizonExceeded:
		return target == ErrHorizonExceeded
	case GatewayIncompleteData:
		return target == ErrIncompleteData
	case GatewayProviderUnavailable:
		return target == ErrProviderUnavailable
	}
	return false
}

// ProtocolErrorKind classifies violations of the call/response exchange.
type ProtocolErrorKind string

// ProtocolUnmatchedToolCall means a requested call could not be answered.
const ProtocolUnmatchedToolCall ProtocolErrorKind = "UnmatchedToolCall"

// ProtocolError aborts an exchange. It is not recoverable locally.
type ProtocolError struct {
	Kind   ProtocolErrorKind
	CallID string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("protocol: %s", e.Kind)
	if e.CallID != "" {
		msg += fmt.Sprintf(" call_id=%q", e.CallID)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnmatchedToolCall.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrUnmatchedToolCall && e.Kind == ProtocolUnmatchedToolCall
}

// ArgumentError reports tool call arguments that failed decoding or schema validation.
type ArgumentError struct {
	Raw string
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("arguments: %v", e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidArguments.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArguments
}

// ErrorCode maps a recoverable error to its ToolResponse failure code.
// Errors outside the taxonomy map to CodeInternal.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnparseable):
		return CodeUnparseableDate
	case errors.Is(err, ErrLocationNotFound):
		return CodeLocationNotFound
	case errors.Is(err, ErrHorizonExceeded):
		return CodeHorizonExceeded
	case errors.Is(err, ErrIncompleteData):
		return CodeIncompleteData
	case errors.Is(err, ErrProviderUnavailable):
		return CodeProviderUnavailable
	case errors.Is(err, ErrInvalidArguments):
		return CodeInvalidArguments
	}
	return CodeInternal
}
