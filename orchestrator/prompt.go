package orchestrator

import (
	"fmt"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/schema"
	"github.com/tmc/langchaingo/llms"
)

// DefaultSystemPrompt instructs the model when to call get_weather. The current date is
// appended per query.
const DefaultSystemPrompt = "You are a helpful assistant. " +
	"If the user asks about the weather, you must use the 'get_weather' function " +
	"to find the weather information. Provide the location and, if the user mentions " +
	"one, the date or time reference exactly as the user phrased it; do not compute " +
	"dates yourself. If the user does not ask about weather, respond normally. " +
	"When the function reports an error, explain the problem to the user in plain words."

// ToolDescription describes get_weather to the model.
const ToolDescription = "Get the daily weather forecast (maximum and minimum temperature " +
	"and precipitation) for a specific location and optional date."

// ArgumentsSchema is the JSON Schema of the get_weather arguments.
func ArgumentsSchema() map[string]any {
	return schema.Object(map[string]*schema.Property{
		"location": schema.String(
			"The city and state/country, e.g., San Francisco, CA or Paris, France",
		).MinLength(1).MaxLength(200),
		"datetime_expression": schema.String(
			"Optional. A date or natural language time reference like 'tomorrow', " +
				"'next Monday', or '2025-07-15'. If omitted, today's forecast is assumed.",
		).MaxLength(200),
	}, "location")
}

// WeatherTool is the get_weather capability declaration.
func WeatherTool() llms.Tool {
	return schema.Tool(weathercall.CapabilityName, ToolDescription, ArgumentsSchema())
}

// systemPrompt appends the reference date so the model can phrase answers relative to it.
func systemPrompt(base string, ref time.Time) string {
	return fmt.Sprintf("%s\n\nToday is %s, %s.", base, ref.Weekday(), ref.Format(weathercall.DateLayout))
}
