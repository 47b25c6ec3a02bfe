package weathercall

import (
	"fmt"
	"time"
)

// CapabilityName is the only capability the orchestrator declares to the model.
const CapabilityName = "get_weather"

// DateLayout is the calendar date layout used on every boundary (tool payloads,
// provider requests, logs).
const DateLayout = "2006-01-02"

// Query is a single user utterance. Each query is answered independently.
type Query struct {
	// ID correlates log records, hook events and the result of one query.
	ID string

	// Text is the raw utterance.
	Text string

	// ReceivedAt is the reference instant used to resolve temporal expressions.
	ReceivedAt time.Time
}

// WeatherArgs is the argument set of a get_weather call.
type WeatherArgs struct {
	Location           string `json:"location" mapstructure:"location"`
	DatetimeExpression string `json:"datetime_expression,omitempty" mapstructure:"datetime_expression"`
}

// ToolCallRequest is a structured call emitted by the model.
type ToolCallRequest struct {
	// ID is the model-assigned identifier the response must be keyed by.
	ID string

	// Name is the capability name requested.
	Name string

	// RawArguments is the argument payload exactly as emitted by the model.
	RawArguments string

	// Args is populated once RawArguments has been validated and decoded.
	Args *WeatherArgs
}

// ToolResponse is the structured reply sent back to the model for one ToolCallRequest.
type ToolResponse struct {
	// CallID is the ID of the ToolCallRequest this response answers.
	CallID string

	// Name echoes the capability name of the request.
	Name string

	// Content is the JSON payload handed to the model.
	Content string

	// Failed reports whether Content describes a failure.
	Failed bool

	// Code is the failure code when Failed is true (see ErrorCode).
	Code string
}

// ResolvedDate is a calendar date resolved from a natural-language expression.
type ResolvedDate struct {
	// Date is midnight of the resolved day in the reference instant's location.
	Date time.Time

	// Expression is the original expression the date was derived from.
	Expression string
}

// IsZero reports whether the date is the explicit "unresolved" marker.
func (d ResolvedDate) IsZero() bool {
	return d.Date.IsZero()
}

// String formats the date as YYYY-MM-DD, or "unresolved".
func (d ResolvedDate) String() string {
	if d.IsZero() {
		return "unresolved"
	}
	return d.Date.Format(DateLayout)
}

// GeoLocation is a geocoded place.
type GeoLocation struct {
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

// DisplayName joins the non-empty name parts, e.g. "London, England, United Kingdom".
func (l GeoLocation) DisplayName() string {
	name := l.Name
	for _, part := range []string{l.Region, l.Country} {
		if part != "" && part != l.Name {
			name += ", " + part
		}
	}
	return name
}

// Measurement is a numeric forecast value with its unit.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func (m Measurement) String() string {
	return fmt.Sprintf("%g %s", m.Value, m.Unit)
}

// ForecastResult is the daily forecast for one place and date.
type ForecastResult struct {
	Location      GeoLocation `json:"location"`
	Date          string      `json:"date"`
	MaxTemp       Measurement `json:"max_temp"`
	MinTemp       Measurement `json:"min_temp"`
	Precipitation Measurement `json:"precipitation"`
}
