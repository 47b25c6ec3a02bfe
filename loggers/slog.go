// Package loggers provides hooks that log query lifecycle events.
package loggers

import (
	"context"
	"log/slog"

	"github.com/rickchristie/weathercall"
)

// SlogHook logs every lifecycle event as a structured record. Provider-level causes are
// logged here and nowhere else.
type SlogHook struct {
	logger *slog.Logger
}

// NewSlogHook creates a SlogHook. A nil logger uses slog.Default().
func NewSlogHook(logger *slog.Logger) *SlogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHook{logger: logger}
}

func (h *SlogHook) OnStateTransition(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.StateTransitionEvent,
) {
	h.logger.DebugContext(ctx, "state transition",
		"query_id", q.ID,
		"from", event.From,
		"to", event.To,
	)
}

func (h *SlogHook) OnBeforeModelCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.BeforeModelCallEvent,
) {
	h.logger.DebugContext(ctx, "model call",
		"query_id", q.ID,
		"model", event.Model,
		"turn", event.Turn,
		"messages", len(event.Request),
	)
}

func (h *SlogHook) OnAfterModelCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.AfterModelCallEvent,
) {
	if event.Error != nil {
		h.logger.ErrorContext(ctx, "model call failed",
			"query_id", q.ID,
			"model", event.Model,
			"turn", event.Turn,
			"duration", event.Duration,
			"error", event.Error,
		)
		return
	}

	attrs := []any{
		"query_id", q.ID,
		"model", event.Model,
		"turn", event.Turn,
		"duration", event.Duration,
	}
	if event.Response != nil && event.Response.Info != nil {
		attrs = append(attrs,
			"input_tokens", event.Response.Info.InputTokens,
			"output_tokens", event.Response.Info.OutputTokens,
		)
	}
	if event.Response != nil && len(event.Response.Choices) > 0 && event.Response.Choices[0] != nil {
		attrs = append(attrs, "tool_calls", len(event.Response.Choices[0].ToolCalls))
	}
	h.logger.DebugContext(ctx, "model call done", attrs...)
}

func (h *SlogHook) OnBeforeToolCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.BeforeToolCallEvent,
) {
	h.logger.DebugContext(ctx, "tool call",
		"query_id", q.ID,
		"call_id", event.Request.ID,
		"tool", event.Request.Name,
		"arguments", event.Request.RawArguments,
	)
}

func (h *SlogHook) OnAfterToolCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.AfterToolCallEvent,
) {
	attrs := []any{
		"query_id", q.ID,
		"call_id", event.Request.ID,
		"tool", event.Request.Name,
		"duration", event.Duration,
	}
	if !event.ResolvedDate.IsZero() {
		attrs = append(attrs, "date", event.ResolvedDate.String())
	}

	if event.Response.Failed {
		attrs = append(attrs, "code", event.Response.Code)
		if event.Error != nil {
			attrs = append(attrs, "error", event.Error)
		}
		h.logger.WarnContext(ctx, "tool call failed", attrs...)
		return
	}

	if event.Forecast != nil {
		attrs = append(attrs,
			"location", event.Forecast.Location.DisplayName(),
			"max_temp", event.Forecast.MaxTemp.String(),
			"min_temp", event.Forecast.MinTemp.String(),
			"precipitation", event.Forecast.Precipitation.String(),
		)
	}
	h.logger.InfoContext(ctx, "tool call done", attrs...)
}

func (h *SlogHook) OnQueryDone(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.QueryDoneEvent,
) {
	if event.State == weathercall.StateAborted {
		h.logger.ErrorContext(ctx, "query aborted",
			"query_id", q.ID,
			"tool_called", event.ToolCalled,
			"duration", event.Duration,
			"error", event.Error,
		)
		return
	}
	h.logger.InfoContext(ctx, "query done",
		"query_id", q.ID,
		"tool_called", event.ToolCalled,
		"duration", event.Duration,
	)
}

// Compile-time checks that SlogHook implements all hook interfaces.
var (
	_ weathercall.StateTransitionHook = (*SlogHook)(nil)
	_ weathercall.BeforeModelCallHook = (*SlogHook)(nil)
	_ weathercall.AfterModelCallHook  = (*SlogHook)(nil)
	_ weathercall.BeforeToolCallHook  = (*SlogHook)(nil)
	_ weathercall.AfterToolCallHook   = (*SlogHook)(nil)
	_ weathercall.QueryDoneHook       = (*SlogHook)(nil)
)
