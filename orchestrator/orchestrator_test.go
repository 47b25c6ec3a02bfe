package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/forecast"
	"github.com/rickchristie/weathercall/internal/tt"
	"github.com/rickchristie/weathercall/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// Wednesday.
var reference = time.Date(2025, 5, 7, 9, 15, 0, 0, time.UTC)

type fixture struct {
	model    *tt.MockModel
	provider *tt.FakeProvider
	orch     *Orchestrator
	events   *eventRecorder
}

func newFixture(model *tt.MockModel, provider *tt.FakeProvider) *fixture {
	clock := weathercall.NewMockTimeProvider(reference)
	gateway := forecast.New(provider, forecast.Options{Clock: clock})
	events := &eventRecorder{}
	orch := New(model, temporal.New(temporal.Options{}), gateway, Options{
		ModelName: "mock",
		Clock:     clock,
	}).RegisterHook(events)
	return &fixture{model: model, provider: provider, orch: orch, events: events}
}

func defaultProvider() *tt.FakeProvider {
	return tt.NewFakeProvider().
		WithPlace("London", tt.London, tt.LondonOntario).
		WithPlace("New Delhi", tt.NewDelhi).
		WithForecast("London", "2025-05-07", 17.0, 8.5, 0.0).
		WithForecast("London", "2025-05-08", 18.2, 9.1, 0.4)
}

func payload(t *testing.T, r weathercall.ToolResponse) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.Content), &m))
	return m
}

func assertValidTrail(t *testing.T, trail []weathercall.State) {
	t.Helper()
	require.NotEmpty(t, trail)
	assert.Equal(t, weathercall.StateAwaitingModelTurn, trail[0])
	for i := 1; i < len(trail); i++ {
		assert.True(t, trail[i-1].CanTransition(trail[i]), "%s -> %s", trail[i-1], trail[i])
	}
	assert.True(t, trail[len(trail)-1].Terminal())
}

func TestOrchestrator_PlainAnswer(t *testing.T) {
	f := newFixture(
		tt.NewMockModel().AddText("Why did the scarecrow win an award? He was outstanding in his field."),
		defaultProvider(),
	)

	result := f.orch.Ask(context.Background(), "Tell me a joke.")

	require.NoError(t, result.Err)
	assert.Equal(t, weathercall.StateDone, result.State)
	assert.Equal(t, []weathercall.State{
		weathercall.StateAwaitingModelTurn,
		weathercall.StatePlainAnswer,
		weathercall.StateDone,
	}, result.Transitions)
	assert.NotContains(t, result.Transitions, weathercall.StateExecutingCall)
	assert.Contains(t, result.Answer, "scarecrow")
	assert.False(t, result.ToolCalled())
	assert.Empty(t, result.ToolResponses)
	assert.NotEmpty(t, result.QueryID)

	assert.Equal(t, 1, f.model.CallCount())
	assert.Empty(t, f.provider.GeocodeCalls)
	assert.Empty(t, f.provider.DailyCalls)

	// The capability is declared on the first turn.
	require.Len(t, f.model.CapturedOptions[0].Tools, 1)
	assert.Equal(t, weathercall.CapabilityName, f.model.CapturedOptions[0].Tools[0].Function.Name)
}

func TestOrchestrator_LondonTomorrow(t *testing.T) {
	f := newFixture(
		tt.NewMockModel().
			AddToolCall("call_1", "get_weather", `{"location": "London", "datetime_expression": "tomorrow"}`).
			AddText("Tomorrow in London expect a high of 18.2°C and a low of 9.1°C with 0.4 mm of rain."),
		defaultProvider(),
	)

	result := f.orch.Ask(context.Background(), "What's the weather in London tomorrow?")

	require.NoError(t, result.Err)
	assert.Equal(t, weathercall.StateDone, result.State)
	assert.Equal(t, []weathercall.State{
		weathercall.StateAwaitingModelTurn,
		weathercall.StateCallRequested,
		weathercall.StateExecutingCall,
		weathercall.StateAwaitingFinalTurn,
		weathercall.StateDone,
	}, result.Transitions)

	// Resolver: tomorrow relative to 2025-05-07.
	assert.Equal(t, "2025-05-08", result.ResolvedDate.String())
	assert.Equal(t, "tomorrow", result.ResolvedDate.Expression)

	// Gateway called with ("London", 2025-05-08), first-ranked candidate.
	assert.Equal(t, []string{"London"}, f.provider.GeocodeCalls)
	require.Len(t, f.provider.DailyCalls, 1)
	assert.Equal(t, tt.DailyCall{Location: tt.London, Date: "2025-05-08"}, f.provider.DailyCalls[0])

	require.NotNil(t, result.ToolCall)
	assert.Equal(t, "call_1", result.ToolCall.ID)
	require.NotNil(t, result.ToolCall.Args)
	assert.Equal(t, weathercall.WeatherArgs{Location: "London", DatetimeExpression: "tomorrow"}, *result.ToolCall.Args)

	require.Len(t, result.ToolResponses, 1)
	resp := result.ToolResponses[0]
	assert.Equal(t, "call_1", resp.CallID)
	assert.False(t, resp.Failed)
	body := payload(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "London, England, United Kingdom", body["location"])
	assert.Equal(t, "2025-05-08", body["date"])
	assert.Equal(t, "tomorrow", body["relative_date"])
	assert.Equal(t, map[string]any{"value": 18.2, "unit": "°C"}, body["max_temperature"])
	assert.Equal(t, map[string]any{"value": 9.1, "unit": "°C"}, body["min_temperature"])

	require.NotNil(t, result.Forecast)
	assert.Contains(t, result.Answer, "18.2")
	assert.Contains(t, result.Answer, "9.1")

	// Final turn: history carries the call and its response, no tools are offered.
	require.Equal(t, 2, f.model.CallCount())
	assert.Empty(t, f.model.CapturedOptions[1].Tools)
	history := f.model.CapturedMessages[1]
	require.Len(t, history, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, history[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, history[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, history[2].Role)
	require.Len(t, history[2].Parts, 1)
	assert.Equal(t, "call_1", history[2].Parts[0].(llms.ToolCall).ID)
	assert.Equal(t, llms.ChatMessageTypeTool, history[3].Role)
	toolResp, ok := history[3].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call_1", toolResp.ToolCallID)
	assert.Equal(t, weathercall.CapabilityName, toolResp.Name)
	assert.Equal(t, resp.Content, toolResp.Content)

	assert.Equal(t, 15+28, result.Usage.TotalTokens)
}

func TestOrchestrator_SystemPromptCarriesDate(t *testing.T) {
	f := newFixture(tt.NewMockModel().AddText("hi"), defaultProvider())

	f.orch.Ask(context.Background(), "hello")

	system := f.model.CapturedMessages[0][0]
	require.Len(t, system.Parts, 1)
	text := system.Parts[0].(llms.TextContent).Text
	assert.Contains(t, text, "get_weather")
	assert.Contains(t, text, "Today is Wednesday, 2025-05-07.")
}

func TestOrchestrator_RecoveredFailures(t *testing.T) {
	type input struct {
		name      string
		arguments string
		provider  func() *tt.FakeProvider
	}

	type expected struct {
		code       string
		dailyCalls int
		hidden     string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "double next is unparseable",
			input:    input{arguments: `{"location": "London", "datetime_expression": "next next Monday"}`},
			expected: expected{code: weathercall.CodeUnparseableDate},
		},
		{
			name:     "impossible date is unparseable",
			input:    input{arguments: `{"location": "London", "datetime_expression": "2025-99-99"}`},
			expected: expected{code: weathercall.CodeUnparseableDate},
		},
		{
			name:     "weekday portmanteau is unparseable",
			input:    input{arguments: `{"location": "London", "datetime_expression": "Thufriday"}`},
			expected: expected{code: weathercall.CodeUnparseableDate},
		},
		{
			name:     "unknown place",
			input:    input{arguments: `{"location": "Nonexistent Place"}`},
			expected: expected{code: weathercall.CodeLocationNotFound},
		},
		{
			name:     "45 days out",
			input:    input{arguments: `{"location": "New Delhi", "datetime_expression": "in 45 days"}`},
			expected: expected{code: weathercall.CodeHorizonExceeded},
		},
		{
			name: "provider down",
			input: input{
				arguments: `{"location": "London"}`,
				provider: func() *tt.FakeProvider {
					p := defaultProvider()
					p.GeocodeErr = errors.New("dial tcp 10.0.0.1:443: connect: connection refused")
					return p
				},
			},
			expected: expected{code: weathercall.CodeProviderUnavailable, hidden: "connection refused"},
		},
		{
			name: "missing figures",
			input: input{
				arguments: `{"location": "New Delhi"}`,
				provider: func() *tt.FakeProvider {
					hi, lo := 41.0, 29.0
					return defaultProvider().WithDaily("New Delhi", "2025-05-07", &forecast.Daily{
						Date: "2025-05-07", MaxTemp: &hi, MinTemp: &lo, TempUnit: "°C",
					})
				},
			},
			expected: expected{code: weathercall.CodeIncompleteData, dailyCalls: 1},
		},
		{
			name:     "unknown argument",
			input:    input{arguments: `{"location": "London", "datetime_str": "tomorrow"}`},
			expected: expected{code: weathercall.CodeInvalidArguments},
		},
		{
			name:     "missing location",
			input:    input{arguments: `{"datetime_expression": "tomorrow"}`},
			expected: expected{code: weathercall.CodeInvalidArguments},
		},
		{
			name:     "arguments not json",
			input:    input{arguments: `London, tomorrow`},
			expected: expected{code: weathercall.CodeInvalidArguments},
		},
		{
			name:     "blank location",
			input:    input{arguments: `{"location": "  "}`},
			expected: expected{code: weathercall.CodeLocationNotFound},
		},
		{
			name:     "unknown capability",
			input:    input{name: "get_stock_price", arguments: `{"ticker": "ACME"}`},
			expected: expected{code: weathercall.CodeUnsupportedCall},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name := tc.input.name
			if name == "" {
				name = weathercall.CapabilityName
			}
			provider := defaultProvider()
			if tc.input.provider != nil {
				provider = tc.input.provider()
			}
			f := newFixture(
				tt.NewMockModel().
					AddToolCall("call_x", name, tc.input.arguments).
					AddText("Sorry, I could not get that forecast."),
				provider,
			)

			result := f.orch.Ask(context.Background(), "weather?")

			require.NoError(t, result.Err)
			assert.Equal(t, weathercall.StateDone, result.State)
			assertValidTrail(t, result.Transitions)
			assert.Equal(t, 2, f.model.CallCount())
			assert.Len(t, provider.DailyCalls, tc.expected.dailyCalls)
			assert.Nil(t, result.Forecast)

			require.Len(t, result.ToolResponses, 1)
			resp := result.ToolResponses[0]
			assert.Equal(t, "call_x", resp.CallID)
			assert.True(t, resp.Failed)
			assert.Equal(t, tc.expected.code, resp.Code)

			body := payload(t, resp)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.expected.code, body["error"])
			assert.NotEmpty(t, body["message"])
			if tc.expected.hidden != "" {
				assert.NotContains(t, resp.Content, tc.expected.hidden)
			}

			// The response reached the model, paired with the call.
			last := f.model.CapturedMessages[1][3]
			assert.Equal(t, "call_x", last.Parts[0].(llms.ToolCallResponse).ToolCallID)
		})
	}
}

func TestOrchestrator_BlankDateMeansToday(t *testing.T) {
	f := newFixture(
		tt.NewMockModel().
			AddToolCall("call_1", "get_weather", `{"location": "London", "datetime_expression": ""}`).
			AddText("Today in London: 17°C."),
		defaultProvider(),
	)

	result := f.orch.Ask(context.Background(), "Weather in London?")

	require.NoError(t, result.Err)
	require.Len(t, f.provider.DailyCalls, 1)
	assert.Equal(t, "2025-05-07", f.provider.DailyCalls[0].Date)
	assert.Equal(t, "today", payload(t, result.ToolResponses[0])["relative_date"])
}

func TestOrchestrator_MultipleCallsAnsweredOneToOne(t *testing.T) {
	f := newFixture(
		tt.NewMockModel().
			AddToolCalls(
				tt.ToolCall("call_a", "get_weather", `{"location": "London", "datetime_expression": "tomorrow"}`),
				tt.ToolCall("call_b", "get_weather", `{"location": "New Delhi"}`),
				tt.ToolCall("call_c", "get_time", `{}`),
			).
			AddText("London tomorrow: 18.2°C."),
		defaultProvider(),
	)

	result := f.orch.Ask(context.Background(), "Weather in London and New Delhi?")

	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.Requested)
	require.Len(t, result.ToolResponses, 3)
	assert.Equal(t, "call_a", result.ToolResponses[0].CallID)
	assert.False(t, result.ToolResponses[0].Failed)
	assert.Equal(t, "call_b", result.ToolResponses[1].CallID)
	assert.Equal(t, weathercall.CodeUnsupportedCall, result.ToolResponses[1].Code)
	assert.Equal(t, "call_c", result.ToolResponses[2].CallID)
	assert.Equal(t, weathercall.CodeUnsupportedCall, result.ToolResponses[2].Code)

	// Exactly one gateway round per query.
	assert.Len(t, f.provider.DailyCalls, 1)

	history := f.model.CapturedMessages[1]
	require.Len(t, history, 2+1+3)
	assert.Len(t, history[2].Parts, 3)
	for i, id := range []string{"call_a", "call_b", "call_c"} {
		assert.Equal(t, id, history[3+i].Parts[0].(llms.ToolCallResponse).ToolCallID)
	}
}

func TestOrchestrator_Aborts(t *testing.T) {
	type input struct {
		model    func() *tt.MockModel
		provider func() *tt.FakeProvider
		ctx      func() context.Context
	}

	type expected struct {
		sentinel   error
		modelCalls int
		lastBefore weathercall.State
	}

	cancelled := func() context.Context {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "model fails on first turn",
			input: input{model: func() *tt.MockModel {
				return tt.NewMockModel().AddError(errors.New("429 rate limited"))
			}},
			expected: expected{
				sentinel:   weathercall.ErrModelCall,
				modelCalls: 1,
				lastBefore: weathercall.StateAwaitingModelTurn,
			},
		},
		{
			name: "model returns no choices",
			input: input{model: func() *tt.MockModel {
				return tt.NewMockModel().AddRawResponse(&weathercall.ContentResponse{})
			}},
			expected: expected{
				sentinel:   weathercall.ErrModelCall,
				modelCalls: 1,
				lastBefore: weathercall.StateAwaitingModelTurn,
			},
		},
		{
			name: "cancelled context",
			input: input{
				model: tt.NewMockModel,
				ctx:   cancelled,
			},
			expected: expected{
				sentinel:   weathercall.ErrModelCall,
				modelCalls: 1,
				lastBefore: weathercall.StateAwaitingModelTurn,
			},
		},
		{
			name: "call without identifier",
			input: input{model: func() *tt.MockModel {
				return tt.NewMockModel().AddToolCall("", "get_weather", `{"location": "London"}`)
			}},
			expected: expected{
				sentinel:   weathercall.ErrUnmatchedToolCall,
				modelCalls: 1,
				lastBefore: weathercall.StateCallRequested,
			},
		},
		{
			name: "duplicate call identifiers",
			input: input{model: func() *tt.MockModel {
				return tt.NewMockModel().AddToolCalls(
					tt.ToolCall("call_1", "get_weather", `{"location": "London"}`),
					tt.ToolCall("call_1", "get_weather", `{"location": "Paris"}`),
				)
			}},
			expected: expected{
				sentinel:   weathercall.ErrUnmatchedToolCall,
				modelCalls: 1,
				lastBefore: weathercall.StateCallRequested,
			},
		},
		{
			name: "internal fault while executing",
			input: input{
				model: func() *tt.MockModel {
					return tt.NewMockModel().AddToolCall("call_1", "get_weather", `{"location": "London"}`)
				},
				provider: func() *tt.FakeProvider {
					p := defaultProvider()
					p.DailyPanic = "nil map write"
					return p
				},
			},
			expected: expected{
				sentinel:   weathercall.ErrUnmatchedToolCall,
				modelCalls: 1,
				lastBefore: weathercall.StateExecutingCall,
			},
		},
		{
			name: "model fails on final turn",
			input: input{model: func() *tt.MockModel {
				return tt.NewMockModel().
					AddToolCall("call_1", "get_weather", `{"location": "London"}`).
					AddError(errors.New("502 bad gateway"))
			}},
			expected: expected{
				sentinel:   weathercall.ErrModelCall,
				modelCalls: 2,
				lastBefore: weathercall.StateAwaitingFinalTurn,
			},
		},
		{
			name: "second call round requested",
			input: input{model: func() *tt.MockModel {
				return tt.NewMockModel().
					AddToolCall("call_1", "get_weather", `{"location": "London"}`).
					AddToolCall("call_2", "get_weather", `{"location": "Paris"}`)
			}},
			expected: expected{
				sentinel:   weathercall.ErrUnmatchedToolCall,
				modelCalls: 2,
				lastBefore: weathercall.StateAwaitingFinalTurn,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := defaultProvider()
			if tc.input.provider != nil {
				provider = tc.input.provider()
			}
			ctx := context.Background()
			if tc.input.ctx != nil {
				ctx = tc.input.ctx()
			}
			f := newFixture(tc.input.model(), provider)

			result := f.orch.Ask(ctx, "What's the weather in London?")

			assert.Equal(t, weathercall.StateAborted, result.State)
			require.Error(t, result.Err)
			assert.True(t, errors.Is(result.Err, tc.expected.sentinel), "got %v", result.Err)
			assert.Empty(t, result.Answer)
			assert.Equal(t, tc.expected.modelCalls, f.model.CallCount())
			assertValidTrail(t, result.Transitions)

			n := len(result.Transitions)
			assert.Equal(t, tc.expected.lastBefore, result.Transitions[n-2])
		})
	}
}

func TestOrchestrator_ModelTimeout(t *testing.T) {
	model := &slowModel{delay: time.Second}
	orch := New(model, temporal.New(temporal.Options{}), forecast.New(defaultProvider(), forecast.Options{}), Options{
		ModelTimeout: 10 * time.Millisecond,
	})

	result := orch.Ask(context.Background(), "Tell me a joke.")

	assert.Equal(t, weathercall.StateAborted, result.State)
	assert.True(t, errors.Is(result.Err, weathercall.ErrModelCall))
	assert.True(t, errors.Is(result.Err, context.DeadlineExceeded))
}

func TestOrchestrator_Hooks(t *testing.T) {
	f := newFixture(
		tt.NewMockModel().
			AddToolCall("call_1", "get_weather", `{"location": "London", "datetime_expression": "tomorrow"}`).
			AddText("18.2°C"),
		defaultProvider(),
	)

	result := f.orch.Run(context.Background(), &weathercall.Query{ID: "q-42", Text: "London tomorrow?", ReceivedAt: reference})

	assert.Equal(t, "q-42", result.QueryID)
	assert.Equal(t, result.Transitions[1:], f.events.transitions)
	assert.Equal(t, []int{1, 2}, f.events.modelTurns)
	assert.Equal(t, []string{"call_1"}, f.events.beforeTools)
	require.Len(t, f.events.afterTools, 1)
	assert.Equal(t, "2025-05-08", f.events.afterTools[0].ResolvedDate.String())
	assert.NoError(t, f.events.afterTools[0].Error)
	require.Len(t, f.events.done, 1)
	assert.Equal(t, weathercall.StateDone, f.events.done[0].State)
	assert.True(t, f.events.done[0].ToolCalled)
	assert.Equal(t, []string{"q-42"}, f.events.queryIDs)
}

func TestOrchestrator_HookSeesProviderCause(t *testing.T) {
	provider := defaultProvider()
	provider.DailyErr = errors.New("upstream 503")
	f := newFixture(
		tt.NewMockModel().AddToolCall("call_1", "get_weather", `{"location": "London"}`).AddText("unavailable"),
		provider,
	)

	result := f.orch.Ask(context.Background(), "London?")

	require.Len(t, f.events.afterTools, 1)
	assert.ErrorContains(t, f.events.afterTools[0].Error, "upstream 503")
	assert.NotContains(t, result.ToolResponses[0].Content, "upstream 503")
}

func TestExecute(t *testing.T) {
	clock := weathercall.NewMockTimeProvider(reference)
	gateway := forecast.New(defaultProvider(), forecast.Options{Clock: clock})
	resolver := temporal.New(temporal.Options{})

	type expected struct {
		failed bool
		code   string
		date   string
	}

	tests := []struct {
		name     string
		input    weathercall.WeatherArgs
		expected expected
	}{
		{
			name:     "tomorrow",
			input:    weathercall.WeatherArgs{Location: " London ", DatetimeExpression: "tomorrow"},
			expected: expected{date: "2025-05-08"},
		},
		{
			name:     "blank expression is today",
			input:    weathercall.WeatherArgs{Location: "London"},
			expected: expected{date: "2025-05-07"},
		},
		{
			name:     "unparseable",
			input:    weathercall.WeatherArgs{Location: "London", DatetimeExpression: "Thufriday"},
			expected: expected{failed: true, code: weathercall.CodeUnparseableDate, date: "unresolved"},
		},
		{
			name:     "unknown place",
			input:    weathercall.WeatherArgs{Location: "Atlantis", DatetimeExpression: "today"},
			expected: expected{failed: true, code: weathercall.CodeLocationNotFound, date: "2025-05-07"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Execute(context.Background(), resolver, gateway, "mcp-1", tt.input, reference)
			assert.Equal(t, "mcp-1", out.Response.CallID)
			assert.Equal(t, weathercall.CapabilityName, out.Response.Name)
			assert.Equal(t, tt.expected.failed, out.Response.Failed)
			assert.Equal(t, tt.expected.code, out.Response.Code)
			assert.Equal(t, tt.expected.date, out.ResolvedDate.String())
			if tt.expected.failed {
				assert.Error(t, out.Err)
				assert.Nil(t, out.Forecast)
				assert.Equal(t, "error", payload(t, out.Response)["status"])
				return
			}
			require.NoError(t, out.Err)
			require.NotNil(t, out.Forecast)
			assert.Equal(t, "ok", payload(t, out.Response)["status"])
		})
	}
}

func TestWeatherTool(t *testing.T) {
	tool := WeatherTool()

	assert.Equal(t, "function", tool.Type)
	assert.Equal(t, "get_weather", tool.Function.Name)
	params := tool.Function.Parameters.(map[string]any)
	assert.Equal(t, []string{"location"}, params["required"])
	props := params["properties"].(map[string]any)
	assert.Contains(t, props, "location")
	assert.Contains(t, props, "datetime_expression")
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

type eventRecorder struct {
	transitions []weathercall.State
	modelTurns  []int
	beforeTools []string
	afterTools  []weathercall.AfterToolCallEvent
	done        []weathercall.QueryDoneEvent
	queryIDs    []string
}

func (r *eventRecorder) OnStateTransition(_ context.Context, _ *weathercall.Query, e weathercall.StateTransitionEvent) {
	r.transitions = append(r.transitions, e.To)
}

func (r *eventRecorder) OnAfterModelCall(_ context.Context, _ *weathercall.Query, e weathercall.AfterModelCallEvent) {
	r.modelTurns = append(r.modelTurns, e.Turn)
}

func (r *eventRecorder) OnBeforeToolCall(_ context.Context, _ *weathercall.Query, e weathercall.BeforeToolCallEvent) {
	r.beforeTools = append(r.beforeTools, e.Request.ID)
}

func (r *eventRecorder) OnAfterToolCall(_ context.Context, _ *weathercall.Query, e weathercall.AfterToolCallEvent) {
	r.afterTools = append(r.afterTools, e)
}

func (r *eventRecorder) OnQueryDone(_ context.Context, q *weathercall.Query, e weathercall.QueryDoneEvent) {
	r.done = append(r.done, e)
	r.queryIDs = append(r.queryIDs, q.ID)
}

type slowModel struct {
	delay time.Duration
}

func (m *slowModel) GenerateContent(
	ctx context.Context,
	_ []llms.MessageContent,
	_ ...llms.CallOption,
) (*weathercall.ContentResponse, error) {
	select {
	case <-time.After(m.delay):
		return &weathercall.ContentResponse{Choices: []*weathercall.ContentChoice{{Content: "late"}}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
