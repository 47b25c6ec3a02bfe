// Package compare runs a fixed prompt set against several models and tabulates the
// answers.
//
// Each prompt is an independent query. A failing query is recorded as an "ERROR: ..."
// row and the suite moves on; only cancellation of ctx stops it early.
package compare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/internal/logging"
	"github.com/rickchristie/weathercall/orchestrator"
)

// Prompt categories.
const (
	CategoryValidLocation       = "Valid location"
	CategoryNonWeather          = "Non-weather query"
	CategoryAmbiguousLocation   = "Ambiguous location"
	CategoryNonexistentLocation = "Nonexistent location"
	CategoryLocationTime        = "Location + Time"
	CategoryTimeOnly            = "Time only"
	CategoryLocationOnly        = "Location only"
	CategoryInvalidTime         = "Invalid time format"
)

// Prompt is one utterance of the suite.
type Prompt struct {
	Text     string
	Category string
}

// DefaultModels are the models compared when none are given.
var DefaultModels = []string{
	"gpt-4.1-nano-2025-04-14",
	"gpt-4.1-mini-2025-04-14",
	"gpt-4o-mini-2024-07-18",
	"gpt-3.5-turbo-0125",
}

// DefaultPrompts returns the standard prompt set.
func DefaultPrompts() []Prompt {
	return []Prompt{
		{"What's the weather like in New York?", CategoryValidLocation},
		{"Tell me the weather forecast for Tokyo.", CategoryValidLocation},
		{"Can you check the weather in College Park?", CategoryValidLocation},
		{"Is it raining today in Paris?", CategoryValidLocation},
		{"Tell me a joke.", CategoryNonWeather},
		{"Who won the last FIFA World Cup and who was the most important player of that tournament?", CategoryNonWeather},
		{"What's the capital of Norway?", CategoryNonWeather},
		{"Do you believe AI Engineering requires significant skill?", CategoryNonWeather},
		{"What's the weather like?", CategoryAmbiguousLocation},
		{"Is it cold outside?", CategoryAmbiguousLocation},
		{"Weather in heaven?", CategoryNonexistentLocation},
		{"How's the sky there?", CategoryAmbiguousLocation},
		{"What's the weather in London tomorrow?", CategoryLocationTime},
		{"Will it rain in Dallas this weekend?", CategoryLocationTime},
		{"How will the weather be in New Delhi on 2025-06-20?", CategoryLocationTime},
		{"What's the temperature in Rome next Monday?", CategoryLocationTime},
		{"What's the forecast for tomorrow?", CategoryTimeOnly},
		{"What's the weather in College Park?", CategoryLocationOnly},
		{"Tell me how hot it will be next Friday.", CategoryTimeOnly},
		{"Next Tuesday's rain forecast?", CategoryTimeOnly},
		{"Weather in Chicago on Thufriday.", CategoryInvalidTime},
		{"Forecast in Miami on 2025-99-99.", CategoryInvalidTime},
		{"Show me weather in Los Angeles next next Monday.", CategoryInvalidTime},
	}
}

// Asker answers one utterance.
type Asker interface {
	Ask(ctx context.Context, text string) *orchestrator.Result
}

// Factory builds the Asker for a model name.
type Factory func(model string) (Asker, error)

// Suite describes one comparison run.
type Suite struct {
	Models  []string
	Prompts []Prompt
	New     Factory

	// Delay is slept between queries to stay under provider rate limits.
	Delay time.Duration

	// Progress, when set, is called after every row.
	Progress func(Row)

	Logger *slog.Logger
}

// Row is the outcome of one prompt against one model.
type Row struct {
	Prompt   string
	Category string
	Model    string

	// Response is the answer, or "ERROR: <cause>" when no answer was produced.
	Response string

	State      weathercall.State
	ToolCalled bool

	// ToolCode is the code of the first failed tool response, empty when every call
	// succeeded or none was made.
	ToolCode string

	Duration time.Duration
}

// Failed reports whether the row holds an error instead of an answer.
func (r Row) Failed() bool {
	return r.State != weathercall.StateDone
}

// Run executes every prompt against every model, models outermost.
func Run(ctx context.Context, s Suite) ([]Row, error) {
	if s.New == nil {
		return nil, fmt.Errorf("compare: suite has no factory")
	}
	if len(s.Models) == 0 {
		s.Models = DefaultModels
	}
	if len(s.Prompts) == 0 {
		s.Prompts = DefaultPrompts()
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	rows := make([]Row, 0, len(s.Models)*len(s.Prompts))
	emit := func(r Row) {
		rows = append(rows, r)
		if s.Progress != nil {
			s.Progress(r)
		}
	}

	first := true
	for _, model := range s.Models {
		asker, err := s.New(model)
		if err != nil {
			logger.Error("model setup failed", "model", model, "error", err)
			for _, p := range s.Prompts {
				emit(errorRow(p, model, err))
			}
			continue
		}

		for _, p := range s.Prompts {
			if !first && s.Delay > 0 {
				if err := sleep(ctx, s.Delay); err != nil {
					return rows, err
				}
			}
			first = false
			if err := ctx.Err(); err != nil {
				return rows, err
			}

			row := ask(ctx, asker, p, model)
			if row.Failed() {
				logger.Error("query failed", "model", model, "category", p.Category,
					"prompt", p.Text, "response", row.Response)
			} else {
				logger.Info("query done", "model", model, "category", p.Category,
					"prompt", p.Text, "tool_called", row.ToolCalled)
			}
			emit(row)
		}
	}
	return rows, nil
}

func ask(ctx context.Context, asker Asker, p Prompt, model string) (row Row) {
	defer func() {
		if r := recover(); r != nil {
			row = errorRow(p, model, fmt.Errorf("panic: %v", r))
		}
	}()

	res := asker.Ask(ctx, p.Text)
	row = Row{
		Prompt:     p.Text,
		Category:   p.Category,
		Model:      model,
		Response:   res.Answer,
		State:      res.State,
		ToolCalled: res.ToolCalled(),
		Duration:   res.Duration,
	}
	for _, tr := range res.ToolResponses {
		if tr.Failed {
			row.ToolCode = tr.Code
			break
		}
	}
	if res.State != weathercall.StateDone {
		cause := res.Err
		if cause == nil {
			cause = fmt.Errorf("query ended in state %s", res.State)
		}
		row.Response = "ERROR: " + cause.Error()
	}
	return row
}

func errorRow(p Prompt, model string, err error) Row {
	return Row{
		Prompt:   p.Text,
		Category: p.Category,
		Model:    model,
		Response: "ERROR: " + err.Error(),
		State:    weathercall.StateAborted,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
