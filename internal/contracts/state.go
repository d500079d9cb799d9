package contracts

// SortDirection orders a sorted result set.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortField names a sortable column of the screener result table.
type SortField string

const (
	SortBySymbol        SortField = "symbol"
	SortByCompanyName   SortField = "companyName"
	SortBySector        SortField = "sector"
	SortByMarketCap     SortField = "marketCap"
	SortByPrice         SortField = "price"
	SortByChangePct     SortField = "changePct"
	SortByVolume        SortField = "volume"
	SortByAvgVolume     SortField = "avgVolume"
	SortByBeta          SortField = "beta"
	SortByPE            SortField = "pe"
	SortByDividendYield SortField = "dividendYield"
	SortByYearHigh      SortField = "yearHigh"
	SortByYearLow       SortField = "yearLow"
)

// SortSpec is the active sort selection.
type SortSpec struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Toggle returns the selection after choosing a field: re-selecting the current
// field flips direction, a new field resets to descending.
func (s SortSpec) Toggle(field SortField) SortSpec {
	if s.Field == field {
		if s.Direction == SortDesc {
			s.Direction = SortAsc
		} else {
			s.Direction = SortDesc
		}
		return s
	}
	return SortSpec{Field: field, Direction: SortDesc}
}

// DefaultSort is the ordering applied to a fresh screen run.
var DefaultSort = SortSpec{Field: SortByMarketCap, Direction: SortDesc}

// ScreenState is the orchestrator's published state. Handlers and the
// websocket hub read it; only the orchestrator writes it.
type ScreenState struct {
	// Current page of the sorted, filtered result set.
	Results []EnrichedCandidate `json:"results"`

	TotalResults int `json:"totalResults"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`

	Loading   bool   `json:"loading"`
	Enriching bool   `json:"enriching"`
	Error     string `json:"error,omitempty"`

	SortField     SortField     `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`

	// Enrichment coverage counters. Fundamental enrichment is capped, so
	// FundamentalsEnriched can be smaller than TotalResults; the UI can
	// surface "N of M enriched" instead of leaving truncation invisible.
	QuotesEnriched       int `json:"quotesEnriched"`
	FundamentalsEnriched int `json:"fundamentalsEnriched"`
}
