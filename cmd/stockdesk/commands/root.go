package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockdesk",
	Short: "Stockdesk - market dashboard backend",
	Long: `Stockdesk Unified CLI

Backend for the desktop market dashboard: the equity screening pipeline
plus the movers, news, history, and profile widgets.

Usage:
  go run ./cmd/stockdesk [command]

Examples:
  go run ./cmd/stockdesk api
  go run ./cmd/stockdesk screen --sector Technology --pe-max 25
  go run ./cmd/stockdesk quote AAPL
  go run ./cmd/stockdesk warm`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
