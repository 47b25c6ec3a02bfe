// Package hooks dispatches query lifecycle events to registered observers.
//
// Each hook interface in the weathercall package corresponds to one event type.
// Implement only the interfaces you need:
//
//	type ToolAudit struct{}
//
//	func (h *ToolAudit) OnAfterToolCall(
//	    ctx context.Context, q *weathercall.Query, e weathercall.AfterToolCallEvent,
//	) {
//	    audit.Record(q.ID, e.Request.Name, e.Response.Code)
//	}
//
//	var _ weathercall.AfterToolCallHook = (*ToolAudit)(nil)
//
//	registry := hooks.NewRegistry().
//	    Register(loggers.NewSlogHook(logger)).
//	    Register(&ToolAudit{})
package hooks

import (
	"context"

	"github.com/rickchristie/weathercall"
)

// Registry manages a collection of hooks and dispatches events to them.
//
// Hooks are called synchronously, in registration order. A hook that implements
// several interfaces is registered once and receives every matching event.
//
// Registry is NOT safe for concurrent Register calls. Register all hooks before the
// first query; firing from concurrent queries is safe. A nil *Registry fires nothing.
type Registry struct {
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.hooks)
}

// FireStateTransition dispatches to all StateTransitionHook implementations.
func (r *Registry) FireStateTransition(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.StateTransitionEvent,
) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(weathercall.StateTransitionHook); ok {
			hook.OnStateTransition(ctx, q, event)
		}
	}
}

// FireQueryDone dispatches to all QueryDoneHook implementations.
func (r *Registry) FireQueryDone(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.QueryDoneEvent,
) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(weathercall.QueryDoneHook); ok {
			hook.OnQueryDone(ctx, q, event)
		}
	}
}

// FireBeforeModelCall dispatches to all BeforeModelCallHook implementations.
func (r *Registry) FireBeforeModelCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.BeforeModelCallEvent,
) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(weathercall.BeforeModelCallHook); ok {
			hook.OnBeforeModelCall(ctx, q, event)
		}
	}
}

// FireAfterModelCall dispatches to all AfterModelCallHook implementations.
func (r *Registry) FireAfterModelCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.AfterModelCallEvent,
) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(weathercall.AfterModelCallHook); ok {
			hook.OnAfterModelCall(ctx, q, event)
		}
	}
}

// FireBeforeToolCall dispatches to all BeforeToolCallHook implementations.
func (r *Registry) FireBeforeToolCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.BeforeToolCallEvent,
) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(weathercall.BeforeToolCallHook); ok {
			hook.OnBeforeToolCall(ctx, q, event)
		}
	}
}

// FireAfterToolCall dispatches to all AfterToolCallHook implementations.
func (r *Registry) FireAfterToolCall(
	ctx context.Context,
	q *weathercall.Query,
	event weathercall.AfterToolCallEvent,
) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(weathercall.AfterToolCallHook); ok {
			hook.OnAfterToolCall(ctx, q, event)
		}
	}
}
