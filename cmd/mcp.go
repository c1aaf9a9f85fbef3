package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/docqa/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio",
	Long:  `Starts a Model Context Protocol server over stdio exposing ask_documents, search_documents and index_stats to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol.
		log.SetOutput(os.Stderr)

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.Processed() {
			fmt.Fprintln(os.Stderr, "Warning: no index found. Run `docqa ingest` first.")
		}

		mcpserver.Version = Version
		return mcpserver.NewServer(a).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
