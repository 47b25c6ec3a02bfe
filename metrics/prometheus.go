// Package metrics records query, tool call and model call metrics with Prometheus.
package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rickchristie/weathercall"
)

// Namespace prefixes every metric name.
const Namespace = "weathercall"

// outcomeOK labels a tool call that produced a forecast.
const outcomeOK = "ok"

// PrometheusHook implements QueryDoneHook, AfterModelCallHook and AfterToolCallHook.
type PrometheusHook struct {
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	toolCalls     *prometheus.CounterVec
	modelCalls    *prometheus.HistogramVec
	modelErrors   *prometheus.CounterVec
	tokens        *prometheus.CounterVec
}

// NewPrometheusHook creates the collectors and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewPrometheusHook(reg prometheus.Registerer) *PrometheusHook {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	h := &PrometheusHook{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "queries_total",
				Help:      "Queries by terminal state and whether a tool call was requested",
			},
			[]string{"state", "tool_called"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "query_duration_seconds",
				Help:      "Wall time of a query from first model turn to terminal state",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"state"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "tool_calls_total",
				Help:      "Answered tool calls by capability and outcome code",
			},
			[]string{"tool", "outcome"},
		),
		modelCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "model_call_duration_seconds",
				Help:      "Duration of model calls by turn",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"turn"},
		),
		modelErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "model_call_errors_total",
				Help:      "Failed model calls by turn",
			},
			[]string{"turn"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "model_tokens_total",
				Help:      "Tokens reported by the model by direction",
			},
			[]string{"direction"},
		),
	}

	reg.MustRegister(h.queries, h.queryDuration, h.toolCalls, h.modelCalls, h.modelErrors, h.tokens)
	return h
}

// OnQueryDone implements weathercall.QueryDoneHook.
func (h *PrometheusHook) OnQueryDone(
	_ context.Context,
	_ *weathercall.Query,
	event weathercall.QueryDoneEvent,
) {
	state := string(event.State)
	h.queries.WithLabelValues(state, strconv.FormatBool(event.ToolCalled)).Inc()
	h.queryDuration.WithLabelValues(state).Observe(event.Duration.Seconds())
}

// OnAfterModelCall implements weathercall.AfterModelCallHook.
func (h *PrometheusHook) OnAfterModelCall(
	_ context.Context,
	_ *weathercall.Query,
	event weathercall.AfterModelCallEvent,
) {
	turn := strconv.Itoa(event.Turn)
	h.modelCalls.WithLabelValues(turn).Observe(event.Duration.Seconds())
	if event.Error != nil {
		h.modelErrors.WithLabelValues(turn).Inc()
		return
	}
	if event.Response != nil && event.Response.Info != nil {
		h.tokens.WithLabelValues("input").Add(float64(event.Response.Info.InputTokens))
		h.tokens.WithLabelValues("output").Add(float64(event.Response.Info.OutputTokens))
	}
}

// OnAfterToolCall implements weathercall.AfterToolCallHook.
func (h *PrometheusHook) OnAfterToolCall(
	_ context.Context,
	_ *weathercall.Query,
	event weathercall.AfterToolCallEvent,
) {
	outcome := outcomeOK
	if event.Response.Failed {
		outcome = event.Response.Code
	}
	h.toolCalls.WithLabelValues(event.Request.Name, outcome).Inc()
}

var (
	_ weathercall.QueryDoneHook      = (*PrometheusHook)(nil)
	_ weathercall.AfterModelCallHook = (*PrometheusHook)(nil)
	_ weathercall.AfterToolCallHook  = (*PrometheusHook)(nil)
)
