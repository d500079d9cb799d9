package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/internal/external/fmp"
	"github.com/stockdesk/backend/internal/screener"
	"github.com/stockdesk/backend/pkg/config"
	"github.com/stockdesk/backend/pkg/httputil"
	"github.com/stockdesk/backend/pkg/logger"
)

// screenCmd runs the screening pipeline once and prints the first page.
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run an equity screen from the command line",
	Long: `Runs the full screening pipeline once and prints the first result page.

Example:
  go run ./cmd/stockdesk screen --sector Technology --market-cap-min 1e9
  go run ./cmd/stockdesk screen --pe-max 20 --dividend-yield-min 0.02`,
	RunE: runScreen,
}

var (
	screenSector     string
	screenExchange   string
	screenCountry    string
	screenLimit      int
	marketCapMin     float64
	marketCapMax     float64
	peMin            float64
	peMax            float64
	dividendYieldMin float64
	sortField        string
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenSector, "sector", "", "sector filter")
	screenCmd.Flags().StringVar(&screenExchange, "exchange", "", "exchange filter")
	screenCmd.Flags().StringVar(&screenCountry, "country", "", "country filter")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 0, "server-side candidate cap")
	screenCmd.Flags().Float64Var(&marketCapMin, "market-cap-min", 0, "minimum market cap")
	screenCmd.Flags().Float64Var(&marketCapMax, "market-cap-max", 0, "maximum market cap")
	screenCmd.Flags().Float64Var(&peMin, "pe-min", 0, "minimum P/E (enables ratio enrichment)")
	screenCmd.Flags().Float64Var(&peMax, "pe-max", 0, "maximum P/E (enables ratio enrichment)")
	screenCmd.Flags().Float64Var(&dividendYieldMin, "dividend-yield-min", 0, "minimum dividend yield")
	screenCmd.Flags().StringVar(&sortField, "sort", "", "sort field (default marketCap)")
}

// applySort selects the requested sort field before the run. SetSort toggles
// direction on a repeated field, so asking for the field that is already
// active must be a no-op rather than a flip to ascending.
func applySort(o *screener.Orchestrator, field contracts.SortField) {
	if field != o.State().SortField {
		o.SetSort(field)
	}
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		cfg.LogLevel = "warn"
	}
	log := logger.New(cfg)

	gateway := fmp.NewClient(cfg, httputil.New(log), log)
	orchestrator := screener.NewOrchestrator(gateway, cfg, log)

	criteria := contracts.ScreenCriteria{
		Server: contracts.CoarseFilter{
			Sector:   screenSector,
			Exchange: screenExchange,
			Country:  screenCountry,
			Limit:    screenLimit,
		},
	}
	if cmd.Flags().Changed("market-cap-min") {
		criteria.Server.MarketCapMin = &marketCapMin
	}
	if cmd.Flags().Changed("market-cap-max") {
		criteria.Server.MarketCapMax = &marketCapMax
	}
	if cmd.Flags().Changed("pe-min") {
		criteria.Client.PEMin = &peMin
	}
	if cmd.Flags().Changed("pe-max") {
		criteria.Client.PEMax = &peMax
	}
	if cmd.Flags().Changed("dividend-yield-min") {
		criteria.Client.DividendYieldMin = &dividendYieldMin
	}

	if sortField != "" {
		field := contracts.SortField(sortField)
		if !screener.IsSortable(field) {
			return fmt.Errorf("unknown sort field %q", sortField)
		}
		applySort(orchestrator, field)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := orchestrator.RunScreen(ctx, criteria); err != nil {
		return fmt.Errorf("screen run: %w", err)
	}

	state := orchestrator.State()
	fmt.Printf("Screened %d matches in %s (quotes: %d, ratios: %d)\n\n",
		state.TotalResults, time.Since(start).Round(time.Millisecond),
		state.QuotesEnriched, state.FundamentalsEnriched)

	fmt.Printf("%-8s %-28s %14s %10s %8s %8s\n",
		"SYMBOL", "COMPANY", "MARKET CAP", "PRICE", "CHG%", "P/E")
	for _, c := range state.Results {
		fmt.Printf("%-8s %-28.28s %14.0f %10.2f %8s %8s\n",
			c.Symbol, c.CompanyName, c.MarketCap, c.Price,
			formatOptional(c.ChangePct), formatOptional(c.PE))
	}
	if state.TotalPages > 1 {
		fmt.Printf("\nPage 1 of %d (%d per page)\n", state.TotalPages, cfg.Screener.PageSize)
	}
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
