package main

import (
	"log"
	"os"

	"github.com/rickchristie/weathercall/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes get_weather and resolve_date to MCP clients over standard input and output.
No language model is used; the client's model decides when to call the tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout free for JSON-RPC.
		log.SetOutput(os.Stderr)

		a := newApp(cmd, false)
		srv := mcpserver.New(a.resolver, a.gateway, a.clock, version, logger)

		logger.Info("starting weathercall MCP server (stdio)")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
