// Package config loads the weathercall configuration from YAML and the environment.
//
//	model:
//	  provider: openai
//	  name: gpt-4.1-mini-2025-04-14
//	  timeout: 30s
//	forecast:
//	  horizon_days: 16
//	temporal:
//	  weekend_day: saturday
//	log:
//	  level: info
//	  format: text
//	server:
//	  addr: ":8080"
//
// Only the cmd package reads files and environment variables; library packages take
// explicit option structs built from a Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rickchristie/weathercall/internal/logging"
	"github.com/rickchristie/weathercall/temporal"
	"gopkg.in/yaml.v3"
)

// Model providers.
const (
	ProviderOpenAI = "openai"
	ProviderGitHub = "github"
)

// Config is the complete configuration.
type Config struct {
	Model        ModelConfig        `yaml:"model"`
	Forecast     ForecastConfig     `yaml:"forecast"`
	Temporal     TemporalConfig     `yaml:"temporal"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Log          LogConfig          `yaml:"log"`
	Server       ServerConfig       `yaml:"server"`
}

// ModelConfig selects the language model.
type ModelConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "github" (GitHub Models).
	Provider string `yaml:"provider"`
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"base_url"`

	// APIKey is normally supplied through OPENAI_API_KEY or GITHUB_TOKEN.
	APIKey string `yaml:"api_key"`

	// Timeout bounds each model call. Zero means no bound.
	Timeout time.Duration `yaml:"timeout"`
}

// ForecastConfig configures the Open-Meteo provider and the forecast horizon.
type ForecastConfig struct {
	GeocodeURL  string        `yaml:"geocode_url"`
	ForecastURL string        `yaml:"forecast_url"`
	Language    string        `yaml:"language"`
	Candidates  int           `yaml:"candidates"`
	Timeout     time.Duration `yaml:"timeout"`
	HorizonDays int           `yaml:"horizon_days"`
	PastDays    int           `yaml:"past_days"`
}

// TemporalConfig configures date resolution.
type TemporalConfig struct {
	// WeekendDay is "saturday" or "sunday".
	WeekendDay string `yaml:"weekend_day"`
}

// OrchestratorConfig configures the exchange with the model.
type OrchestratorConfig struct {
	// SystemPrompt replaces the built-in prompt when set.
	SystemPrompt string `yaml:"system_prompt"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider: ProviderOpenAI,
			Timeout:  60 * time.Second,
		},
		Forecast: ForecastConfig{
			Language:    "en",
			Candidates:  5,
			Timeout:     10 * time.Second,
			HorizonDays: 16,
		},
		Temporal: TemporalConfig{WeekendDay: "saturday"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Environment variables read by FromEnv.
const (
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvProvider    = "WEATHERCALL_PROVIDER"
	EnvModel       = "WEATHERCALL_MODEL"
	EnvBaseURL     = "WEATHERCALL_BASE_URL"
	EnvLogLevel    = "WEATHERCALL_LOG_LEVEL"
	EnvAddr        = "WEATHERCALL_ADDR"
)

// FromEnv applies environment overrides. lookup is usually os.LookupEnv.
//
// The API key is taken from GITHUB_TOKEN for the github provider and from OPENAI_API_KEY
// otherwise, and only when the file did not set one.
func (c *Config) FromEnv(lookup func(string) (string, bool)) *Config {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&c.Model.Provider, EnvProvider)
	set(&c.Model.Name, EnvModel)
	set(&c.Model.BaseURL, EnvBaseURL)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Server.Addr, EnvAddr)

	if c.Model.APIKey == "" {
		if strings.EqualFold(c.Model.Provider, ProviderGitHub) {
			set(&c.Model.APIKey, EnvGitHubToken)
		} else {
			set(&c.Model.APIKey, EnvOpenAIKey)
		}
	}
	return c
}

// Validate reports every invalid field. The API key is not checked; a missing key is
// reported when the model is constructed so that commands without a model still run.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Model.Provider) {
	case ProviderOpenAI, ProviderGitHub:
	default:
		errs = append(errs, fmt.Errorf("model.provider: unknown provider %q", c.Model.Provider))
	}
	if c.Model.Timeout < 0 {
		errs = append(errs, errors.New("model.timeout: must not be negative"))
	}

	if c.Forecast.HorizonDays <= 0 {
		errs = append(errs, fmt.Errorf("forecast.horizon_days: must be positive, got %d", c.Forecast.HorizonDays))
	}
	if c.Forecast.PastDays < 0 {
		errs = append(errs, fmt.Errorf("forecast.past_days: must not be negative, got %d", c.Forecast.PastDays))
	}
	if c.Forecast.Candidates < 0 {
		errs = append(errs, fmt.Errorf("forecast.candidates: must not be negative, got %d", c.Forecast.Candidates))
	}
	if c.Forecast.Timeout < 0 {
		errs = append(errs, errors.New("forecast.timeout: must not be negative"))
	}

	if _, ok := temporal.ParseWeekendPolicy(c.Temporal.WeekendDay); !ok {
		errs = append(errs, fmt.Errorf("temporal.weekend_day: expected saturday or sunday, got %q", c.Temporal.WeekendDay))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: expected text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// WeekendPolicy returns the parsed temporal.weekend_day.
func (c *Config) WeekendPolicy() temporal.WeekendPolicy {
	p, _ := temporal.ParseWeekendPolicy(c.Temporal.WeekendDay)
	return p
}
