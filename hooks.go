package weathercall

import "context"

// Hook interfaces. A hook implements any combination of them and registers once with a
// hooks.Registry; it only receives the events for the interfaces it implements.
//
//	type AuditHook struct{}
//
//	func (h *AuditHook) OnAfterToolCall(
//	    ctx context.Context, q *Query, e AfterToolCallEvent,
//	) {
//	    audit.Record(q.ID, e.Request.Name, e.Response.Code)
//	}
//
// Hooks observe; they cannot alter the exchange.

// StateTransitionHook is notified of every state change of a query.
type StateTransitionHook interface {
	OnStateTransition(ctx context.Context, q *Query, event StateTransitionEvent)
}

// QueryDoneHook is notified once per query when it terminates.
type QueryDoneHook interface {
	OnQueryDone(ctx context.Context, q *Query, event QueryDoneEvent)
}

// BeforeModelCallHook is notified before each model API call.
type BeforeModelCallHook interface {
	OnBeforeModelCall(ctx context.Context, q *Query, event BeforeModelCallEvent)
}

// AfterModelCallHook is notified after each model API call.
type AfterModelCallHook interface {
	OnAfterModelCall(ctx context.Context, q *Query, event AfterModelCallEvent)
}

// BeforeToolCallHook is notified before a requested call is executed.
type BeforeToolCallHook interface {
	OnBeforeToolCall(ctx context.Context, q *Query, event BeforeToolCallEvent)
}

// AfterToolCallHook is notified once a requested call has been answered.
type AfterToolCallHook interface {
	OnAfterToolCall(ctx context.Context, q *Query, event AfterToolCallEvent)
}
