package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockdesk/backend/internal/external/fmp"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/httputil"
	"github.com/stockdesk/backend/pkg/logger"
)

// quoteCmd fetches live quotes for one or more symbols.
var quoteCmd = &cobra.Command{
	Use:   "quote SYMBOL [SYMBOL...]",
	Short: "Fetch live quotes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		cfg.LogLevel = "warn"
	}
	log := logger.New(cfg)

	gateway := fmp.NewClient(cfg, httputil.New(log), log)

	symbols := make([]string, len(args))
	for i, a := range args {
		symbols[i] = strings.ToUpper(strings.TrimSpace(a))
	}

	quotes, err := gateway.BatchQuotes(cmd.Context(), symbols)
	if err != nil {
		return fmt.Errorf("fetch quotes: %w", err)
	}
	if len(quotes) == 0 {
		fmt.Println("No quotes found")
		return nil
	}

	fmt.Printf("%-8s %10s %8s %12s %12s %10s\n",
		"SYMBOL", "PRICE", "CHG%", "DAY RANGE", "52W RANGE", "AVG VOL")
	for _, q := range quotes {
		fmt.Printf("%-8s %10.2f %8.2f %5.1f-%-6.1f %5.1f-%-6.1f %10d\n",
			q.Symbol, q.Price, q.ChangesPercentage,
			q.DayLow, q.DayHigh, q.YearLow, q.YearHigh, q.AvgVolume)
	}
	return nil
}
