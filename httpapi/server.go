// Package httpapi exposes the orchestrator over HTTP.
//
//	POST /v1/ask   {"query": "What's the weather in London tomorrow?"}
//	GET  /healthz
//	GET  /metrics
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/orchestrator"
)

// maxQueryBytes bounds the request body.
const maxQueryBytes = 16 << 10

// Asker answers one utterance.
type Asker interface {
	Ask(ctx context.Context, text string) *orchestrator.Result
}

// Server serves the API.
type Server struct {
	Asker  Asker
	Logger *slog.Logger
}

// NewHandler creates the HTTP handler. When gatherer is nil /metrics is not mounted.
func NewHandler(asker Asker, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Asker: asker, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Post("/v1/ask", s.Ask)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse is the body of a successful POST /v1/ask.
type AskResponse struct {
	QueryID      string              `json:"query_id"`
	Answer       string              `json:"answer"`
	State        weathercall.State   `json:"state"`
	ToolCalled   bool                `json:"tool_called"`
	ToolCall     *ToolCall           `json:"tool_call,omitempty"`
	ResolvedDate string              `json:"resolved_date,omitempty"`
	Forecast     *Forecast           `json:"forecast,omitempty"`
	Transitions  []weathercall.State `json:"transitions"`
	Usage        Usage               `json:"usage"`
	DurationMs   int64               `json:"duration_ms"`
}

// ToolCall reports the executed get_weather call.
type ToolCall struct {
	ID                 string `json:"id"`
	Location           string `json:"location,omitempty"`
	DatetimeExpression string `json:"datetime_expression,omitempty"`

	// Error is the failure code when the call could not be answered with a forecast.
	Error string `json:"error,omitempty"`
}

// Forecast is the forecast the answer was based on.
type Forecast struct {
	Location      string                  `json:"location"`
	Latitude      float64                 `json:"latitude"`
	Longitude     float64                 `json:"longitude"`
	Date          string                  `json:"date"`
	MaxTemp       weathercall.Measurement `json:"max_temperature"`
	MinTemp       weathercall.Measurement `json:"min_temperature"`
	Precipitation weathercall.Measurement `json:"precipitation"`
}

// Usage is the token usage of the query.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	QueryID string            `json:"query_id,omitempty"`
	State   weathercall.State `json:"state,omitempty"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ask handles POST /v1/ask. An aborted exchange answers 502.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var body AskRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxQueryBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.Logger.Warn("ask: invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	text := strings.TrimSpace(body.Query)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "query is required"})
		return
	}

	res := s.Asker.Ask(r.Context(), text)
	if res.State != weathercall.StateDone {
		s.Logger.Error("ask: query aborted",
			"query_id", res.QueryID,
			"request_id", middleware.GetReqID(r.Context()),
			"error", res.Err,
		)
		writeJSON(w, statusFor(res.Err), ErrorResponse{
			Error:   "the query could not be answered",
			QueryID: res.QueryID,
			State:   res.State,
		})
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res))
}

func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func toResponse(res *orchestrator.Result) AskResponse {
	out := AskResponse{
		QueryID:     res.QueryID,
		Answer:      res.Answer,
		State:       res.State,
		ToolCalled:  res.ToolCalled(),
		Transitions: res.Transitions,
		Usage: Usage{
			InputTokens:  res.Usage.InputTokens,
			OutputTokens: res.Usage.OutputTokens,
			TotalTokens:  res.Usage.TotalTokens,
		},
		DurationMs: res.Duration.Milliseconds(),
	}
	if !res.ResolvedDate.IsZero() {
		out.ResolvedDate = res.ResolvedDate.String()
	}

	if call := res.ToolCall; call != nil {
		tc := &ToolCall{ID: call.ID}
		if call.Args != nil {
			tc.Location = call.Args.Location
			tc.DatetimeExpression = call.Args.DatetimeExpression
		}
		for _, tr := range res.ToolResponses {
			if tr.CallID == call.ID && tr.Failed {
				tc.Error = tr.Code
			}
		}
		out.ToolCall = tc
	}

	if fc := res.Forecast; fc != nil {
		out.Forecast = &Forecast{
			Location:      fc.Location.DisplayName(),
			Latitude:      fc.Location.Latitude,
			Longitude:     fc.Location.Longitude,
			Date:          fc.Date,
			MaxTemp:       fc.MaxTemp,
			MinTemp:       fc.MinTemp,
			Precipitation: fc.Precipitation,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
