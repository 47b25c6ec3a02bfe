package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickchristie/weathercall/config"
	"github.com/rickchristie/weathercall/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "weathercall",
	Short: "Weather assistant that answers forecast questions through a language model",
	Long: `weathercall lets a language model answer weather questions by calling a single
get_weather capability. Dates such as "tomorrow" or "next Friday" are resolved locally
and forecasts come from Open-Meteo.

Configuration is read from --config (YAML) and then from the environment:
OPENAI_API_KEY, GITHUB_TOKEN, WEATHERCALL_PROVIDER, WEATHERCALL_MODEL,
WEATHERCALL_BASE_URL, WEATHERCALL_LOG_LEVEL and WEATHERCALL_ADDR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		loaded.FromEnv(os.LookupEnv)

		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Log.Format, _ = cmd.Flags().GetString("log-format")
		}
		if cmd.Flags().Changed("provider") {
			loaded.Model.Provider, _ = cmd.Flags().GetString("provider")
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level, _ := logging.ParseLevel(loaded.Log.Level)
		logger = logging.New(level, loaded.Log.Format, os.Stderr)
		slog.SetDefault(logger)
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("provider", "openai", "Model provider: openai or github")
	rootCmd.PersistentFlags().String("model", "", "Model name (defaults to the provider's default)")
	rootCmd.PersistentFlags().Bool("trace", false, "Write a YAML trace of every model and tool call to stderr")
}
