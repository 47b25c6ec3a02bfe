// Package orchestrator drives the exchange between a user query, the model and the
// get_weather capability.
//
// Each query runs through an explicit state machine:
//
//	AwaitingModelTurn ─┬─> PlainAnswer ──────────────────────────────> Done
//	                   └─> CallRequested ─> ExecutingCall ─> AwaitingFinalTurn ─> Done
//
// Any state before Done may move to Aborted. Every call the model requests is answered
// with exactly one ToolResponse keyed by the call's ID before the final turn is
// requested; when no response can be produced the exchange is Aborted with a
// [weathercall.ProtocolError] instead of advancing.
//
// Temporal and gateway failures are recovered: they are packaged into the ToolResponse
// so the model can explain them. Model failures and protocol violations abort. Nothing
// is retried.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/hooks"
	"github.com/rickchristie/weathercall/schema"
	"github.com/tmc/langchaingo/llms"
)

// Resolver maps a date expression to a calendar date relative to ref.
type Resolver interface {
	Resolve(expression string, ref time.Time) (weathercall.ResolvedDate, error)
}

// Gateway fetches the forecast for a place name and a resolved date.
type Gateway interface {
	Fetch(ctx context.Context, location string, date weathercall.ResolvedDate) (*weathercall.ForecastResult, error)
}

// Options configures an Orchestrator.
type Options struct {
	// SystemPrompt defaults to DefaultSystemPrompt.
	SystemPrompt string

	// ModelName is reported in model call events.
	ModelName string

	// ModelTimeout bounds each model call. Zero means no bound beyond ctx.
	ModelTimeout time.Duration

	// Clock supplies the reference instant of each query. Defaults to the system clock.
	Clock weathercall.TimeProvider
}

// Orchestrator answers queries. It holds no per-query state and is safe for concurrent
// use once hooks are registered.
type Orchestrator struct {
	model    weathercall.Model
	resolver Resolver
	gateway  Gateway
	opts     Options
	hooks    *hooks.Registry

	tool      llms.Tool
	argSchema *schema.Schema
}

// New creates an Orchestrator.
func New(model weathercall.Model, resolver Resolver, gateway Gateway, opts Options) *Orchestrator {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.Clock == nil {
		opts.Clock = weathercall.NewDefaultTimeProvider()
	}
	return &Orchestrator{
		model:     model,
		resolver:  resolver,
		gateway:   gateway,
		opts:      opts,
		hooks:     hooks.NewRegistry(),
		tool:      WeatherTool(),
		argSchema: schema.MustCompile(ArgumentsSchema()),
	}
}

// WithHooks replaces the orchestrator's hook registry with the provided one.
func (o *Orchestrator) WithHooks(h *hooks.Registry) *Orchestrator {
	o.hooks = h
	return o
}

// RegisterHook adds a hook to the orchestrator's existing hook registry.
func (o *Orchestrator) RegisterHook(hook any) *Orchestrator {
	o.hooks.Register(hook)
	return o
}

// Tool returns the capability declared to the model.
func (o *Orchestrator) Tool() llms.Tool {
	return o.tool
}

// Result is the outcome of one query.
type Result struct {
	QueryID string
	Answer  string

	// State is Done or Aborted.
	State weathercall.State

	// Transitions lists every state visited, starting with AwaitingModelTurn.
	Transitions []weathercall.State

	// Requested is the number of calls the model asked for.
	Requested int

	// ToolCall is the executed get_weather call, if the model requested one.
	ToolCall *weathercall.ToolCallRequest

	// ToolResponses holds the response to every requested call, in request order.
	ToolResponses []weathercall.ToolResponse

	// ResolvedDate is the date the call was executed for.
	ResolvedDate weathercall.ResolvedDate

	// Forecast is set when the gateway succeeded.
	Forecast *weathercall.ForecastResult

	// Usage sums the token usage of all model turns.
	Usage weathercall.GenerationInfo

	Duration time.Duration

	// Err is the abort cause. It is nil when State is Done, even if the tool call failed.
	Err error
}

// ToolCalled reports whether the model requested any capability.
func (r *Result) ToolCalled() bool {
	return r.Requested > 0
}

// Ask answers a single utterance, using the clock for the reference instant.
func (o *Orchestrator) Ask(ctx context.Context, text string) *Result {
	return o.Run(ctx, &weathercall.Query{
		ID:         uuid.NewString(),
		Text:       text,
		ReceivedAt: o.opts.Clock.Now(),
	})
}

// Run answers q. A missing ID or reference instant is filled in.
func (o *Orchestrator) Run(ctx context.Context, q *weathercall.Query) *Result {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.ReceivedAt.IsZero() {
		q.ReceivedAt = o.opts.Clock.Now()
	}

	x := &exchange{
		o:       o,
		query:   q,
		state:   weathercall.StateAwaitingModelTurn,
		started: time.Now(),
		result: &Result{
			QueryID:     q.ID,
			Transitions: []weathercall.State{weathercall.StateAwaitingModelTurn},
		},
		messages: []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt(o.opts.SystemPrompt, q.ReceivedAt)),
			llms.TextParts(llms.ChatMessageTypeHuman, q.Text),
		},
	}
	x.run(ctx)
	return x.finish(ctx)
}

// exchange is the state of one query.
type exchange struct {
	o        *Orchestrator
	query    *weathercall.Query
	state    weathercall.State
	result   *Result
	messages []llms.MessageContent
	started  time.Time
}

func (x *exchange) run(ctx context.Context) {
	choice, err := x.callModel(ctx, 1, llms.WithTools([]llms.Tool{x.o.tool}))
	if err != nil {
		x.abort(ctx, err)
		return
	}

	if !choice.HasToolCalls() {
		x.transition(ctx, weathercall.StatePlainAnswer)
		x.result.Answer = choice.Content
		x.transition(ctx, weathercall.StateDone)
		return
	}

	x.transition(ctx, weathercall.StateCallRequested)
	x.result.Requested = len(choice.ToolCalls)
	if err := x.checkCalls(choice.ToolCalls); err != nil {
		x.abort(ctx, err)
		return
	}

	x.transition(ctx, weathercall.StateExecutingCall)
	responses, err := x.executeCalls(ctx, choice.ToolCalls)
	if err != nil {
		x.abort(ctx, err)
		return
	}
	x.result.ToolResponses = responses
	x.appendExchange(choice, responses)

	x.transition(ctx, weathercall.StateAwaitingFinalTurn)
	final, err := x.callModel(ctx, 2)
	if err != nil {
		x.abort(ctx, err)
		return
	}
	if final.HasToolCalls() {
		x.abort(ctx, &weathercall.ProtocolError{
			Kind:   weathercall.ProtocolUnmatchedToolCall,
			CallID: final.ToolCalls[0].ID,
			Reason: "call requested on the final turn; one call round per query",
		})
		return
	}

	x.result.Answer = final.Content
	x.transition(ctx, weathercall.StateDone)
}

// callModel sends the current history and returns the first choice.
func (x *exchange) callModel(ctx context.Context, turn int, options ...llms.CallOption) (*weathercall.ContentChoice, error) {
	if x.o.opts.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.o.opts.ModelTimeout)
		defer cancel()
	}

	x.o.hooks.FireBeforeModelCall(ctx, x.query, weathercall.BeforeModelCallEvent{
		Model:   x.o.opts.ModelName,
		Turn:    turn,
		Request: x.messages,
	})

	start := time.Now()
	resp, err := x.o.model.GenerateContent(ctx, x.messages, options...)
	duration := time.Since(start)

	if err == nil && (resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil) {
		err = errors.New("response has no choices")
	}
	if err != nil {
		err = fmt.Errorf("%w: turn %d: %w", weathercall.ErrModelCall, turn, err)
	}

	x.o.hooks.FireAfterModelCall(ctx, x.query, weathercall.AfterModelCallEvent{
		Model:    x.o.opts.ModelName,
		Turn:     turn,
		Response: resp,
		Duration: duration,
		Error:    err,
	})
	if err != nil {
		return nil, err
	}

	if resp.Info != nil {
		x.result.Usage.InputTokens += resp.Info.InputTokens
		x.result.Usage.OutputTokens += resp.Info.OutputTokens
		x.result.Usage.TotalTokens += resp.Info.TotalTokens
	}
	x.result.Usage.Duration += duration
	return resp.Choices[0], nil
}

// appendExchange records the assistant's call turn and one tool message per response.
func (x *exchange) appendExchange(choice *weathercall.ContentChoice, responses []weathercall.ToolResponse) {
	ai := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if choice.Content != "" {
		ai.Parts = append(ai.Parts, llms.TextContent{Text: choice.Content})
	}
	for _, call := range choice.ToolCalls {
		ai.Parts = append(ai.Parts, call)
	}
	x.messages = append(x.messages, ai)

	for _, r := range responses {
		x.messages = append(x.messages, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: r.CallID,
				Name:       r.Name,
				Content:    r.Content,
			}},
		})
	}
}

func (x *exchange) transition(ctx context.Context, to weathercall.State) {
	from := x.state
	if !from.CanTransition(to) {
		panic(fmt.Sprintf("orchestrator: illegal transition %s -> %s", from, to))
	}
	x.state = to
	x.result.Transitions = append(x.result.Transitions, to)
	x.o.hooks.FireStateTransition(ctx, x.query, weathercall.StateTransitionEvent{From: from, To: to})
}

func (x *exchange) abort(ctx context.Context, err error) {
	x.result.Err = err
	x.result.Answer = ""
	x.transition(ctx, weathercall.StateAborted)
}

func (x *exchange) finish(ctx context.Context) *Result {
	x.result.State = x.state
	x.result.Duration = time.Since(x.started)
	x.o.hooks.FireQueryDone(ctx, x.query, weathercall.QueryDoneEvent{
		State:      x.result.State,
		Answer:     x.result.Answer,
		ToolCalled: x.result.ToolCalled(),
		Duration:   x.result.Duration,
		Error:      x.result.Err,
	})
	return x.result
}
