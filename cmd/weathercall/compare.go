package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rickchristie/weathercall/compare"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the standard prompt set against several models",
	Long: `Asks every prompt of the comparison suite to every model and writes the answers
as CSV and as a Markdown report. A failing query is recorded as an ERROR row.`,
	Example: `  weathercall compare --models gpt-4.1-nano-2025-04-14,gpt-4o-mini-2024-07-18 --delay 3s`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("models")
		delay, _ := cmd.Flags().GetDuration("delay")
		csvPath, _ := cmd.Flags().GetString("csv")
		mdPath, _ := cmd.Flags().GetString("markdown")

		a := newApp(cmd, false)
		out := newPrinter(os.Stdout)

		rows, runErr := compare.Run(cmd.Context(), compare.Suite{
			Models: names,
			New: func(model string) (compare.Asker, error) {
				o, err := a.newOrchestrator(model)
				if err != nil {
					return nil, err
				}
				return o, nil
			},
			Delay:  delay,
			Logger: logger,
			Progress: func(r compare.Row) {
				if r.Failed() {
					out.Error("[%s] %s: %s", r.Model, r.Category, r.Response)
					return
				}
				out.Note("[%s] %s: %s", r.Model, r.Category, r.Prompt)
			},
		})

		if err := writeFile(csvPath, rows, compare.WriteCSV); err != nil {
			return err
		}
		if err := writeFile(mdPath, rows, compare.WriteMarkdown); err != nil {
			return err
		}
		if runErr != nil {
			return fmt.Errorf("comparison stopped after %d rows: %w", len(rows), runErr)
		}
		out.Note("Comparison complete. Results saved to %s and %s.", csvPath, mdPath)
		return nil
	},
}

func writeFile(path string, rows []compare.Row, write func(w io.Writer, rows []compare.Row) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringSlice("models", nil, "Models to compare (defaults to the standard set)")
	compareCmd.Flags().Duration("delay", 3*time.Second, "Pause between queries")
	compareCmd.Flags().String("csv", "weather_model_comparison.csv", "CSV output path")
	compareCmd.Flags().String("markdown", "weather_model_comparison.md", "Markdown output path")
}
