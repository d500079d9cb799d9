package contracts

// CoarseFilter is the subset of screen criteria the market data provider
// can answer server-side. Zero-valued fields are omitted from the query.
type CoarseFilter struct {
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
	Country  string `json:"country,omitempty"`
	Exchange string `json:"exchange,omitempty"`

	MarketCapMin *float64 `json:"marketCapMin,omitempty"`
	MarketCapMax *float64 `json:"marketCapMax,omitempty"`
	PriceMin     *float64 `json:"priceMin,omitempty"`
	PriceMax     *float64 `json:"priceMax,omitempty"`
	VolumeMin    *float64 `json:"volumeMin,omitempty"`
	VolumeMax    *float64 `json:"volumeMax,omitempty"`
	BetaMin      *float64 `json:"betaMin,omitempty"`
	BetaMax      *float64 `json:"betaMax,omitempty"`

	IsETF             *bool `json:"isEtf,omitempty"`
	IsFund            *bool `json:"isFund,omitempty"`
	IsActivelyTrading *bool `json:"isActivelyTrading,omitempty"`

	// Limit caps the server-side result count. Zero means the configured
	// default.
	Limit int `json:"limit,omitempty"`
}

// SMADirection expresses a price-vs-moving-average filter direction.
type SMADirection string

const (
	SMAAny   SMADirection = ""
	SMAAbove SMADirection = "above"
	SMABelow SMADirection = "below"
)

// FineFilter is the client-side filter set evaluated against enriched
// candidates. Every field is optional; nil means "not active". FineFilter
// is a value type: handlers decode a fresh value per request and update
// helpers return copies, so concurrent runs never alias filter state.
type FineFilter struct {
	// Valuation (fundamental ratios)
	PEMin       *float64 `json:"peMin,omitempty"`
	PEMax       *float64 `json:"peMax,omitempty"`
	EPSMin      *float64 `json:"epsMin,omitempty"`
	EPSMax      *float64 `json:"epsMax,omitempty"`
	PBMin       *float64 `json:"pbMin,omitempty"`
	PBMax       *float64 `json:"pbMax,omitempty"`
	PSMin       *float64 `json:"psMin,omitempty"`
	PSMax       *float64 `json:"psMax,omitempty"`
	PFCFMin     *float64 `json:"pfcfMin,omitempty"`
	PFCFMax     *float64 `json:"pfcfMax,omitempty"`
	PEGMin      *float64 `json:"pegMin,omitempty"`
	PEGMax      *float64 `json:"pegMax,omitempty"`
	EVEBITDAMin *float64 `json:"evEbitdaMin,omitempty"`
	EVEBITDAMax *float64 `json:"evEbitdaMax,omitempty"`

	// Dividends (fundamental ratios)
	DividendYieldMin *float64 `json:"dividendYieldMin,omitempty"`
	DividendYieldMax *float64 `json:"dividendYieldMax,omitempty"`
	PayoutRatioMin   *float64 `json:"payoutRatioMin,omitempty"`
	PayoutRatioMax   *float64 `json:"payoutRatioMax,omitempty"`

	// Margins (fundamental ratios)
	GrossMarginMin     *float64 `json:"grossMarginMin,omitempty"`
	GrossMarginMax     *float64 `json:"grossMarginMax,omitempty"`
	OperatingMarginMin *float64 `json:"operatingMarginMin,omitempty"`
	OperatingMarginMax *float64 `json:"operatingMarginMax,omitempty"`
	NetMarginMin       *float64 `json:"netMarginMin,omitempty"`
	NetMarginMax       *float64 `json:"netMarginMax,omitempty"`

	// Returns (fundamental ratios)
	ROAMin  *float64 `json:"roaMin,omitempty"`
	ROAMax  *float64 `json:"roaMax,omitempty"`
	ROEMin  *float64 `json:"roeMin,omitempty"`
	ROEMax  *float64 `json:"roeMax,omitempty"`
	ROCEMin *float64 `json:"roceMin,omitempty"`
	ROCEMax *float64 `json:"roceMax,omitempty"`

	// Liquidity (fundamental ratios)
	CurrentRatioMin *float64 `json:"currentRatioMin,omitempty"`
	CurrentRatioMax *float64 `json:"currentRatioMax,omitempty"`
	QuickRatioMin   *float64 `json:"quickRatioMin,omitempty"`
	QuickRatioMax   *float64 `json:"quickRatioMax,omitempty"`
	CashRatioMin    *float64 `json:"cashRatioMin,omitempty"`
	CashRatioMax    *float64 `json:"cashRatioMax,omitempty"`

	// Leverage (fundamental ratios)
	DebtRatioMin        *float64 `json:"debtRatioMin,omitempty"`
	DebtRatioMax        *float64 `json:"debtRatioMax,omitempty"`
	DebtEquityMin       *float64 `json:"debtEquityMin,omitempty"`
	DebtEquityMax       *float64 `json:"debtEquityMax,omitempty"`
	InterestCoverageMin *float64 `json:"interestCoverageMin,omitempty"`
	InterestCoverageMax *float64 `json:"interestCoverageMax,omitempty"`

	// Efficiency (fundamental ratios)
	AssetTurnoverMin     *float64 `json:"assetTurnoverMin,omitempty"`
	AssetTurnoverMax     *float64 `json:"assetTurnoverMax,omitempty"`
	InventoryTurnoverMin *float64 `json:"inventoryTurnoverMin,omitempty"`
	InventoryTurnoverMax *float64 `json:"inventoryTurnoverMax,omitempty"`

	// Per-share (fundamental ratios)
	FCFPerShareMin *float64 `json:"fcfPerShareMin,omitempty"`
	FCFPerShareMax *float64 `json:"fcfPerShareMax,omitempty"`

	// Quote-backed
	ChangePctMin *float64 `json:"changePctMin,omitempty"`
	ChangePctMax *float64 `json:"changePctMax,omitempty"`
	AvgVolumeMin *float64 `json:"avgVolumeMin,omitempty"`
	AvgVolumeMax *float64 `json:"avgVolumeMax,omitempty"`

	// Trend (quote-backed): price above/below the 50/200-day average by at
	// least the given percent.
	PriceVsSMA50  SMADirection `json:"priceVsSma50,omitempty"`
	SMA50Percent  float64      `json:"sma50Percent,omitempty"`
	PriceVsSMA200 SMADirection `json:"priceVsSma200,omitempty"`
	SMA200Percent float64      `json:"sma200Percent,omitempty"`

	// Proximity (quote-backed): within X% of the 52-week high/low.
	NearYearHighPercent *float64 `json:"nearYearHighPercent,omitempty"`
	NearYearLowPercent  *float64 `json:"nearYearLowPercent,omitempty"`
}

// IsZero reports whether no filter field is active.
func (f FineFilter) IsZero() bool {
	return !f.RequiresFundamentals() &&
		f.ChangePctMin == nil && f.ChangePctMax == nil &&
		f.AvgVolumeMin == nil && f.AvgVolumeMax == nil &&
		f.PriceVsSMA50 == SMAAny && f.PriceVsSMA200 == SMAAny &&
		f.NearYearHighPercent == nil && f.NearYearLowPercent == nil
}

// RequiresFundamentals reports whether any active filter field depends on
// per-symbol fundamental ratio data. This gates the expensive tier-2
// enrichment pass.
func (f FineFilter) RequiresFundamentals() bool {
	fundamentals := []*float64{
		f.PEMin, f.PEMax, f.EPSMin, f.EPSMax,
		f.PBMin, f.PBMax, f.PSMin, f.PSMax,
		f.PFCFMin, f.PFCFMax, f.PEGMin, f.PEGMax,
		f.EVEBITDAMin, f.EVEBITDAMax,
		f.DividendYieldMin, f.DividendYieldMax,
		f.PayoutRatioMin, f.PayoutRatioMax,
		f.GrossMarginMin, f.GrossMarginMax,
		f.OperatingMarginMin, f.OperatingMarginMax,
		f.NetMarginMin, f.NetMarginMax,
		f.ROAMin, f.ROAMax, f.ROEMin, f.ROEMax, f.ROCEMin, f.ROCEMax,
		f.CurrentRatioMin, f.CurrentRatioMax,
		f.QuickRatioMin, f.QuickRatioMax,
		f.CashRatioMin, f.CashRatioMax,
		f.DebtRatioMin, f.DebtRatioMax,
		f.DebtEquityMin, f.DebtEquityMax,
		f.InterestCoverageMin, f.InterestCoverageMax,
		f.AssetTurnoverMin, f.AssetTurnoverMax,
		f.InventoryTurnoverMin, f.InventoryTurnoverMax,
		f.FCFPerShareMin, f.FCFPerShareMax,
	}
	for _, p := range fundamentals {
		if p != nil {
			return true
		}
	}
	return false
}

// ScreenCriteria bundles both filter halves of a screen request.
type ScreenCriteria struct {
	Server CoarseFilter `json:"serverCriteria"`
	Client FineFilter   `json:"clientCriteria"`
}
