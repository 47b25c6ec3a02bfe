package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickchristie/weathercall/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
	assert.Equal(t, 16, cfg.Forecast.HorizonDays)
	assert.Equal(t, 0, cfg.Forecast.PastDays)
	assert.Equal(t, temporal.WeekendSaturday, cfg.WeekendPolicy())
}

func TestParse(t *testing.T) {
	type expected struct {
		cfg func() *Config
		err string
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name:  "empty document keeps defaults",
			input: "",
			expected: expected{cfg: Default},
		},
		{
			name: "overrides merge over defaults",
			input: `
model:
  name: gpt-4o-mini
  timeout: 15s
forecast:
  horizon_days: 7
  past_days: 2
temporal:
  weekend_day: sunday
log:
  format: json
`,
			expected: expected{cfg: func() *Config {
				c := Default()
				c.Model.Name = "gpt-4o-mini"
				c.Model.Timeout = 15 * time.Second
				c.Forecast.HorizonDays = 7
				c.Forecast.PastDays = 2
				c.Temporal.WeekendDay = "sunday"
				c.Log.Format = "json"
				return c
			}},
		},
		{
			name: "system prompt block",
			input: `
orchestrator:
  system_prompt: |
    Answer briefly.
`,
			expected: expected{cfg: func() *Config {
				c := Default()
				c.Orchestrator.SystemPrompt = "Answer briefly.\n"
				return c
			}},
		},
		{
			name:     "unknown field",
			input:    "model:\n  temperature: 0.2\n",
			expected: expected{err: "field temperature not found"},
		},
		{
			name:     "malformed yaml",
			input:    "model: [",
			expected: expected{err: "yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			if tt.expected.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expected.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.cfg(), cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weathercall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromEnv(t *testing.T) {
	type expected struct {
		provider string
		name     string
		baseURL  string
		apiKey   string
		level    string
	}

	tests := []struct {
		name     string
		fileKey  string
		provider string
		env      map[string]string
		expected expected
	}{
		{
			name:     "openai key and model",
			provider: ProviderOpenAI,
			env: map[string]string{
				EnvOpenAIKey: "sk-test",
				EnvModel:     "gpt-4o",
				EnvLogLevel:  "debug",
			},
			expected: expected{provider: "openai", name: "gpt-4o", apiKey: "sk-test", level: "debug"},
		},
		{
			name:     "github provider reads GITHUB_TOKEN",
			provider: ProviderOpenAI,
			env: map[string]string{
				EnvProvider:    "github",
				EnvOpenAIKey:   "sk-test",
				EnvGitHubToken: "ghp-test",
			},
			expected: expected{provider: "github", apiKey: "ghp-test", level: "info"},
		},
		{
			name:     "file key wins",
			fileKey:  "from-file",
			provider: ProviderOpenAI,
			env:      map[string]string{EnvOpenAIKey: "sk-test"},
			expected: expected{provider: "openai", apiKey: "from-file", level: "info"},
		},
		{
			name:     "blank values are ignored",
			provider: ProviderOpenAI,
			env:      map[string]string{EnvModel: "  ", EnvBaseURL: "http://localhost:11434/v1"},
			expected: expected{provider: "openai", baseURL: "http://localhost:11434/v1", level: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Model.Provider = tt.provider
			cfg.Model.APIKey = tt.fileKey

			cfg.FromEnv(envMap(tt.env))

			assert.Equal(t, tt.expected.provider, cfg.Model.Provider)
			assert.Equal(t, tt.expected.name, cfg.Model.Name)
			assert.Equal(t, tt.expected.baseURL, cfg.Model.BaseURL)
			assert.Equal(t, tt.expected.apiKey, cfg.Model.APIKey)
			assert.Equal(t, tt.expected.level, cfg.Log.Level)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		expected []string
	}{
		{
			name:     "unknown provider",
			mutate:   func(c *Config) { c.Model.Provider = "bedrock" },
			expected: []string{"model.provider"},
		},
		{
			name:     "zero horizon",
			mutate:   func(c *Config) { c.Forecast.HorizonDays = 0 },
			expected: []string{"forecast.horizon_days"},
		},
		{
			name:     "bad weekend day",
			mutate:   func(c *Config) { c.Temporal.WeekendDay = "friday" },
			expected: []string{"temporal.weekend_day"},
		},
		{
			name: "every problem is reported",
			mutate: func(c *Config) {
				c.Forecast.PastDays = -1
				c.Log.Level = "loud"
				c.Log.Format = "xml"
				c.Model.Timeout = -time.Second
			},
			expected: []string{"forecast.past_days", "log.level", "log.format", "model.timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			for _, want := range tt.expected {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
