package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rickchristie/weathercall"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Starts an interactive session. Every line is answered as an independent question;
nothing is remembered between lines. Type "quit" or "exit" to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd, false)
		o, err := a.newOrchestrator(modelName(cmd))
		if err != nil {
			return err
		}

		out := newPrinter(os.Stdout)
		rl, err := readline.New(out.Prompt())
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()

		out.Note("Weather assistant. Ask about the forecast anywhere; type 'quit' to exit.")
		for {
			line, err := rl.Readline()
			if err != nil {
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					out.Note("Goodbye!")
					return nil
				}
				return fmt.Errorf("failed to read input: %w", err)
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isExit(line) {
				out.Note("Goodbye!")
				return nil
			}

			res := o.Ask(cmd.Context(), line)
			if res.State != weathercall.StateDone {
				logger.Error("query aborted", "query_id", res.QueryID, "error", res.Err)
				out.Error("Sorry, I couldn't answer that. Please try again.")
				continue
			}
			out.Answer(res.Answer)
		}
	},
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
