package weathercall

import (
	"time"

	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// Hook Event Interface
// -----------------------------------------------------------------------------

// HookEvent is a marker interface for all hook events.
type HookEvent interface {
	hookEvent()
}

// -----------------------------------------------------------------------------
// Query Events
// -----------------------------------------------------------------------------

// StateTransitionEvent is emitted every time the exchange changes state.
type StateTransitionEvent struct {
	From State
	To   State
}

func (StateTransitionEvent) hookEvent() {}

// QueryDoneEvent is emitted once per query after it reaches a terminal state.
type QueryDoneEvent struct {
	// State is Done or Aborted.
	State State

	// Answer is the final text (empty when aborted).
	Answer string

	// ToolCalled reports whether the model requested a capability.
	ToolCalled bool

	// Duration is the wall time of the whole query.
	Duration time.Duration

	// Error is the abort cause (nil when State is Done).
	Error error
}

func (QueryDoneEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Model Call Events
// -----------------------------------------------------------------------------

// BeforeModelCallEvent is emitted before each model API call.
type BeforeModelCallEvent struct {
	// Model is the model identifier.
	Model string

	// Turn is 1 for the initial turn and 2 for the final synthesis turn.
	Turn int

	// Request contains the messages being sent to the model.
	Request []llms.MessageContent
}

func (BeforeModelCallEvent) hookEvent() {}

// AfterModelCallEvent is emitted after each model API call completes.
type AfterModelCallEvent struct {
	// Model is the model identifier.
	Model string

	// Turn is 1 for the initial turn and 2 for the final synthesis turn.
	Turn int

	// Response contains the full response from the model.
	Response *ContentResponse

	// Duration is how long the call took.
	Duration time.Duration

	// Error is any error that occurred (nil if successful).
	Error error
}

func (AfterModelCallEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Tool Call Events
// -----------------------------------------------------------------------------

// BeforeToolCallEvent is emitted before a requested call is executed.
type BeforeToolCallEvent struct {
	Request ToolCallRequest
}

func (BeforeToolCallEvent) hookEvent() {}

// AfterToolCallEvent is emitted once the call has been answered.
type AfterToolCallEvent struct {
	Request  ToolCallRequest
	Response ToolResponse

	// ResolvedDate is the date the call was executed for (zero if resolution failed).
	ResolvedDate ResolvedDate

	// Forecast is set on success.
	Forecast *ForecastResult

	// Duration is how long resolution and the gateway call took.
	Duration time.Duration

	// Error is the recovered failure packaged into Response (nil on success).
	// It may carry provider detail that must not reach the user.
	Error error
}

func (AfterToolCallEvent) hookEvent() {}
