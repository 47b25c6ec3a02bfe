package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/tmc/langchaingo/llms"
	"gopkg.in/yaml.v3"
)

// TraceHook writes a readable transcript of every exchange: the full request history,
// each model turn, the call arguments and the tool response. Structs are written as
// YAML. Nothing is truncated.
type TraceHook struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTraceHook creates a TraceHook that writes to stderr.
func NewTraceHook() *TraceHook {
	return &TraceHook{out: os.Stderr}
}

// NewTraceHookWithWriter creates a TraceHook that writes to w.
func NewTraceHookWithWriter(w io.Writer) *TraceHook {
	return &TraceHook{out: w}
}

func (h *TraceHook) logEvent(q *weathercall.Query, name string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(h.out, "\n>>> [%s] %s: %s\n", q.ID, name, timestamp)
}

func (h *TraceHook) log(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

func (h *TraceHook) logYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		h.log("(failed to marshal: %v)", err)
		return
	}
	fmt.Fprint(h.out, string(data))
}

func (h *TraceHook) logLines(indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		h.log("%s%s", indent, line)
	}
}

func (h *TraceHook) OnBeforeModelCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.BeforeModelCallEvent,
) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logEvent(q, fmt.Sprintf("BeforeModelCall %s turn %d", event.Model, event.Turn))
	h.log("Request:")
	for i, msg := range event.Request {
		h.log("  [%d] Role: %s", i, msg.Role)
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				h.log("      Content:")
				h.logLines("        ", p.Text)
			case llms.ToolCall:
				if p.FunctionCall != nil {
					h.log("      ToolCall %s: %s(%s)", p.ID, p.FunctionCall.Name, p.FunctionCall.Arguments)
				}
			case llms.ToolCallResponse:
				h.log("      ToolResponse %s: %s", p.ToolCallID, p.Content)
			}
		}
	}
}

func (h *TraceHook) OnAfterModelCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.AfterModelCallEvent,
) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logEvent(q, fmt.Sprintf("AfterModelCall %s turn %d (duration: %s)", event.Model, event.Turn, event.Duration))
	if event.Error != nil {
		h.log("Error: %v", event.Error)
		return
	}
	if event.Response == nil {
		return
	}

	for i, choice := range event.Response.Choices {
		if choice == nil {
			continue
		}
		h.log("Choice[%d]:", i)
		if choice.Content != "" {
			h.log("  Content:")
			h.logLines("    ", choice.Content)
		}
		for _, call := range choice.ToolCalls {
			if call.FunctionCall != nil {
				h.log("  ToolCall %s: %s(%s)", call.ID, call.FunctionCall.Name, call.FunctionCall.Arguments)
			}
		}
		if choice.StopReason != "" {
			h.log("  StopReason: %s", choice.StopReason)
		}
	}
	if info := event.Response.Info; info != nil {
		h.log("Tokens: input=%d, output=%d, total=%d", info.InputTokens, info.OutputTokens, info.TotalTokens)
	}
}

func (h *TraceHook) OnAfterToolCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.AfterToolCallEvent,
) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logEvent(q, fmt.Sprintf("AfterToolCall %s (duration: %s)", event.Request.Name, event.Duration))
	data := map[string]any{
		"call_id":   event.Request.ID,
		"arguments": event.Request.RawArguments,
		"response":  event.Response.Content,
	}
	if !event.ResolvedDate.IsZero() {
		data["resolved_date"] = event.ResolvedDate.String()
	}
	if event.Error != nil {
		data["error"] = event.Error.Error()
	}
	h.logYAML(data)
}

func (h *TraceHook) OnQueryDone(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.QueryDoneEvent,
) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logEvent(q, "QueryDone")
	data := map[string]any{
		"state":       string(event.State),
		"tool_called": event.ToolCalled,
		"duration":    event.Duration.String(),
	}
	if event.Error != nil {
		data["error"] = event.Error.Error()
	}
	h.logYAML(data)
}

// Compile-time checks.
var (
	_ weathercall.BeforeModelCallHook = (*TraceHook)(nil)
	_ weathercall.AfterModelCallHook  = (*TraceHook)(nil)
	_ weathercall.AfterToolCallHook   = (*TraceHook)(nil)
	_ weathercall.QueryDoneHook       = (*TraceHook)(nil)
)
