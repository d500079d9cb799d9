package main

import (
	"os"

	"github.com/stockdesk/backend/cmd/stockdesk/commands"
)

// main is the entry point for the stockdesk CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
