package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rickchristie/weathercall"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Example: `  weathercall ask "What's the weather in London tomorrow?"
  weathercall ask --provider github --model openai/gpt-4.1-nano "Will it rain in Dallas this weekend?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("question is empty")
		}

		a := newApp(cmd, false)
		o, err := a.newOrchestrator(modelName(cmd))
		if err != nil {
			return err
		}

		out := newPrinter(os.Stdout)
		res := o.Ask(cmd.Context(), text)
		if res.State != weathercall.StateDone {
			return fmt.Errorf("query %s aborted: %w", res.QueryID, res.Err)
		}

		out.Answer(res.Answer)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			if res.ToolCall != nil {
				out.Note("tool call: %s %s -> %s", res.ToolCall.Name, res.ToolCall.RawArguments, res.ResolvedDate)
			}
			out.Note("tokens: %d in, %d out; %s", res.Usage.InputTokens, res.Usage.OutputTokens, res.Duration)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolP("verbose", "v", false, "Print the tool call and token usage")
}
