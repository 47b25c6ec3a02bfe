// Package tt holds test doubles shared by the package tests.
package tt

import (
	"context"
	"sync"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/forecast"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockModel - implements weathercall.Model with scripted turns
// -----------------------------------------------------------------------------

// MockModel is a configurable mock that implements weathercall.Model.
// Each GenerateContent call consumes the next scripted response or error.
type MockModel struct {
	mu        sync.Mutex
	responses []*weathercall.ContentResponse
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each GenerateContent call.
	CapturedMessages [][]llms.MessageContent

	// CapturedOptions stores the resolved call options of each call.
	CapturedOptions []llms.CallOptions
}

// NewMockModel creates an empty MockModel.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddText queues a plain-text assistant turn.
func (m *MockModel) AddText(content string) *MockModel {
	return m.AddRawResponse(&weathercall.ContentResponse{
		Choices: []*weathercall.ContentChoice{{Content: content, StopReason: "stop"}},
		Info:    &weathercall.GenerationInfo{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	})
}

// AddToolCall queues an assistant turn requesting one tool call.
func (m *MockModel) AddToolCall(id, name, arguments string) *MockModel {
	return m.AddToolCalls(ToolCall(id, name, arguments))
}

// AddToolCalls queues an assistant turn requesting several tool calls.
func (m *MockModel) AddToolCalls(calls ...llms.ToolCall) *MockModel {
	return m.AddRawResponse(&weathercall.ContentResponse{
		Choices: []*weathercall.ContentChoice{{StopReason: "tool_calls", ToolCalls: calls}},
		Info:    &weathercall.GenerationInfo{InputTokens: 20, OutputTokens: 8, TotalTokens: 28},
	})
}

// AddRawResponse queues a raw ContentResponse.
// Use this when you need full control over the response
// structure (e.g., empty Choices slice).
func (m *MockModel) AddRawResponse(resp *weathercall.ContentResponse) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	m.errors = append(m.errors, nil)
	return m
}

// AddError queues an error for the next call.
func (m *MockModel) AddError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of times GenerateContent has been called.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateContent implements weathercall.Model. Once the script is exhausted it answers
// with plain text "done".
func (m *MockModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*weathercall.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.callCount
	m.callCount++

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}
	m.CapturedMessages = append(m.CapturedMessages, messages)
	m.CapturedOptions = append(m.CapturedOptions, opts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) && m.responses[idx] != nil {
		return m.responses[idx], nil
	}
	return &weathercall.ContentResponse{
		Choices: []*weathercall.ContentChoice{{Content: "done"}},
		Info:    &weathercall.GenerationInfo{},
	}, nil
}

// ToolCall builds an llms.ToolCall for a function call.
func ToolCall(id, name, arguments string) llms.ToolCall {
	return llms.ToolCall{
		ID:   id,
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// -----------------------------------------------------------------------------
// FakeProvider - implements forecast.Provider from fixed data
// -----------------------------------------------------------------------------

// FakeProvider is an in-memory forecast.Provider.
type FakeProvider struct {
	mu sync.Mutex

	// Places maps a query name to its ranked candidates.
	Places map[string][]weathercall.GeoLocation

	// Forecasts maps "<place name>|<YYYY-MM-DD>" to the daily figures.
	Forecasts map[string]*forecast.Daily

	GeocodeErr error
	DailyErr   error

	// DailyPanic makes Daily panic with the given value.
	DailyPanic any

	GeocodeCalls []string
	DailyCalls   []DailyCall
}

// DailyCall records one Daily invocation.
type DailyCall struct {
	Location weathercall.GeoLocation
	Date     string
}

// NewFakeProvider creates an empty FakeProvider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Places:    make(map[string][]weathercall.GeoLocation),
		Forecasts: make(map[string]*forecast.Daily),
	}
}

// WithPlace registers candidates for name.
func (p *FakeProvider) WithPlace(name string, candidates ...weathercall.GeoLocation) *FakeProvider {
	p.Places[name] = candidates
	return p
}

// WithForecast registers a complete Celsius/millimetre forecast.
func (p *FakeProvider) WithForecast(place, date string, maxTemp, minTemp, precipitation float64) *FakeProvider {
	p.Forecasts[place+"|"+date] = &forecast.Daily{
		Date:              date,
		MaxTemp:           &maxTemp,
		MinTemp:           &minTemp,
		Precipitation:     &precipitation,
		TempUnit:          "°C",
		PrecipitationUnit: "mm",
	}
	return p
}

// WithDaily registers raw daily figures.
func (p *FakeProvider) WithDaily(place, date string, d *forecast.Daily) *FakeProvider {
	p.Forecasts[place+"|"+date] = d
	return p
}

// Geocode implements forecast.Provider.
func (p *FakeProvider) Geocode(_ context.Context, name string) ([]weathercall.GeoLocation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.GeocodeCalls = append(p.GeocodeCalls, name)
	if p.GeocodeErr != nil {
		return nil, p.GeocodeErr
	}
	return p.Places[name], nil
}

// Daily implements forecast.Provider. Unknown place/date pairs return (nil, nil).
func (p *FakeProvider) Daily(
	_ context.Context,
	loc weathercall.GeoLocation,
	date time.Time,
) (*forecast.Daily, error) {
	p.mu.Lock()
	day := date.Format(weathercall.DateLayout)
	p.DailyCalls = append(p.DailyCalls, DailyCall{Location: loc, Date: day})
	panicValue, err := p.DailyPanic, p.DailyErr
	d := p.Forecasts[loc.Name+"|"+day]
	p.mu.Unlock()

	if panicValue != nil {
		panic(panicValue)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

var _ forecast.Provider = (*FakeProvider)(nil)

// London is a geocoding candidate used across tests.
var London = weathercall.GeoLocation{
	Name:      "London",
	Region:    "England",
	Country:   "United Kingdom",
	Latitude:  51.50853,
	Longitude: -0.12574,
	Timezone:  "Europe/London",
}

// LondonOntario is a lower-ranked candidate for "London".
var LondonOntario = weathercall.GeoLocation{
	Name:      "London",
	Region:    "Ontario",
	Country:   "Canada",
	Latitude:  42.98339,
	Longitude: -81.23304,
	Timezone:  "America/Toronto",
}

// NewDelhi is a geocoding candidate used across tests.
var NewDelhi = weathercall.GeoLocation{
	Name:      "New Delhi",
	Region:    "Delhi",
	Country:   "India",
	Latitude:  28.63576,
	Longitude: 77.22445,
	Timezone:  "Asia/Kolkata",
}
