package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/config"
	"github.com/rickchristie/weathercall/forecast"
	"github.com/rickchristie/weathercall/forecast/openmeteo"
	"github.com/rickchristie/weathercall/loggers"
	"github.com/rickchristie/weathercall/metrics"
	"github.com/rickchristie/weathercall/models"
	"github.com/rickchristie/weathercall/orchestrator"
	"github.com/rickchristie/weathercall/temporal"
	"github.com/spf13/cobra"
)

// app holds the components shared by every model the command talks to.
type app struct {
	cfg      *config.Config
	clock    weathercall.TimeProvider
	resolver *temporal.Resolver
	gateway  *forecast.Gateway

	// registry is nil unless the command exposes metrics.
	registry *prometheus.Registry
	metrics  *metrics.PrometheusHook

	trace bool
}

func newApp(cmd *cobra.Command, withMetrics bool) *app {
	clock := weathercall.NewDefaultTimeProvider()
	provider := openmeteo.New(openmeteo.Options{
		GeocodeURL:  cfg.Forecast.GeocodeURL,
		ForecastURL: cfg.Forecast.ForecastURL,
		Language:    cfg.Forecast.Language,
		Candidates:  cfg.Forecast.Candidates,
		Timeout:     cfg.Forecast.Timeout,
	})

	a := &app{
		cfg:      cfg,
		clock:    clock,
		resolver: temporal.New(temporal.Options{Weekend: cfg.WeekendPolicy()}),
		gateway: forecast.New(provider, forecast.Options{
			Horizon: forecast.Horizon{
				PastDays:     cfg.Forecast.PastDays,
				ForecastDays: cfg.Forecast.HorizonDays,
			},
			Clock: clock,
		}),
	}
	a.trace, _ = cmd.Flags().GetBool("trace")

	if withMetrics {
		a.registry = prometheus.NewRegistry()
		a.metrics = metrics.NewPrometheusHook(a.registry)
	}
	return a
}

// modelName returns the --model flag, falling back to the configured name.
func modelName(cmd *cobra.Command) string {
	if name, _ := cmd.Flags().GetString("model"); name != "" {
		return name
	}
	return cfg.Model.Name
}

func (a *app) newModel(name string) (weathercall.Model, string, error) {
	switch strings.ToLower(a.cfg.Model.Provider) {
	case config.ProviderGitHub:
		m, err := models.NewGitHubModel(name, a.cfg.Model.APIKey)
		if err != nil {
			return nil, "", err
		}
		return m, m.Name(), nil
	case config.ProviderOpenAI:
		m, err := models.NewOpenAIModel(name, a.cfg.Model.APIKey, a.cfg.Model.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return m, m.Name(), nil
	}
	return nil, "", fmt.Errorf("unknown model provider %q", a.cfg.Model.Provider)
}

// newOrchestrator builds an orchestrator for the named model with the logging, metrics
// and trace hooks attached.
func (a *app) newOrchestrator(name string) (*orchestrator.Orchestrator, error) {
	model, resolved, err := a.newModel(name)
	if err != nil {
		return nil, err
	}

	o := orchestrator.New(model, a.resolver, a.gateway, orchestrator.Options{
		SystemPrompt: a.cfg.Orchestrator.SystemPrompt,
		ModelName:    resolved,
		ModelTimeout: a.cfg.Model.Timeout,
		Clock:        a.clock,
	}).RegisterHook(loggers.NewSlogHook(logger.With("model", resolved)))

	if a.metrics != nil {
		o.RegisterHook(a.metrics)
	}
	if a.trace {
		o.RegisterHook(loggers.NewTraceHook())
	}
	return o, nil
}
