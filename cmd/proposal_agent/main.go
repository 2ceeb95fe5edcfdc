// Package main provides the proposal_agent CLI: the HTTP service plus offline
// rendering, validation, snapshot and drafting tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proposal_agent",
	Short: "Proposal pages service and tools",
	Long:  "proposal_agent serves commercial proposal pages populated from editor data, and renders, validates, snapshots and drafts proposals from the command line.",
	// errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
