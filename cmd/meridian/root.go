package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Meridian - decision graph evaluation service",
	Long: `Meridian is a decision service that evaluates versioned rule graphs
against fact maps and returns fully traced decisions.

It serves rule-based decisions over HTTP, providing:
  - Decision graph evaluation with full node-by-node tracing
  - Hot reload of rule files without restarts
  - KYC fact normalization from vendor payloads
  - Immutable audit trails for decisions and rule changes`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
