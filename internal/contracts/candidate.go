package contracts

// Candidate is one security returned by the provider's server-side screen.
// Identity is the ticker symbol (unique within one screen run).
type Candidate struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Exchange          string  `json:"exchange"`
	Country           string  `json:"country"`
	MarketCap         float64 `json:"marketCap"`
	Beta              float64 `json:"beta"`
	Price             float64 `json:"price"`
	Volume            int64   `json:"volume"`
	IsETF             bool    `json:"isEtf"`
	IsActivelyTrading bool    `json:"isActivelyTrading"`
}

// QuoteRecord carries the quote fields attached during tier-1 enrichment.
type QuoteRecord struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	YearLow           float64 `json:"yearLow"`
	YearHigh          float64 `json:"yearHigh"`
	PriceAvg50        float64 `json:"priceAvg50"`
	PriceAvg200       float64 `json:"priceAvg200"`
	Volume            int64   `json:"volume"`
	AvgVolume         int64   `json:"avgVolume"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
}

// RatioRecord is one fundamental-ratio snapshot attached during tier-2
// enrichment.
type RatioRecord struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	Period string `json:"period"`

	PE               float64 `json:"priceEarningsRatio"`
	PEG              float64 `json:"priceEarningsToGrowthRatio"`
	PB               float64 `json:"priceToBookRatio"`
	PS               float64 `json:"priceToSalesRatio"`
	PFCF             float64 `json:"priceToFreeCashFlowsRatio"`
	EVEBITDA         float64 `json:"enterpriseValueMultiple"`
	DividendYield    float64 `json:"dividendYield"`
	PayoutRatio      float64 `json:"payoutRatio"`
	GrossMargin      float64 `json:"grossProfitMargin"`
	OperatingMargin  float64 `json:"operatingProfitMargin"`
	NetMargin        float64 `json:"netProfitMargin"`
	ROA              float64 `json:"returnOnAssets"`
	ROE              float64 `json:"returnOnEquity"`
	ROCE             float64 `json:"returnOnCapitalEmployed"`
	CurrentRatio     float64 `json:"currentRatio"`
	QuickRatio       float64 `json:"quickRatio"`
	CashRatio        float64 `json:"cashRatio"`
	DebtRatio        float64 `json:"debtRatio"`
	DebtEquity       float64 `json:"debtEquityRatio"`
	InterestCoverage float64 `json:"interestCoverage"`
	AssetTurnover    float64 `json:"assetTurnover"`
	InventoryTurn    float64 `json:"inventoryTurnover"`
	EPS              float64 `json:"netIncomePerShare"`
	FCFPerShare      float64 `json:"freeCashFlowPerShare"`
}

// EnrichedCandidate is a Candidate plus optional enrichment fields. Every
// enrichment field is a pointer: nil means "not fetched for this candidate",
// never zero. The fail-closed filter rule pattern-matches on that nil.
type EnrichedCandidate struct {
	Candidate

	// Tier 1: quote fields
	QuotePrice    *float64 `json:"quotePrice,omitempty"`
	ChangePct     *float64 `json:"changePct,omitempty"`
	DayLow        *float64 `json:"dayLow,omitempty"`
	DayHigh       *float64 `json:"dayHigh,omitempty"`
	YearLow       *float64 `json:"yearLow,omitempty"`
	YearHigh      *float64 `json:"yearHigh,omitempty"`
	PriceAvg50    *float64 `json:"priceAvg50,omitempty"`
	PriceAvg200   *float64 `json:"priceAvg200,omitempty"`
	QuoteVolume   *int64   `json:"quoteVolume,omitempty"`
	AvgVolume     *int64   `json:"avgVolume,omitempty"`
	Open          *float64 `json:"open,omitempty"`
	PreviousClose *float64 `json:"previousClose,omitempty"`

	// Derived once at quote-merge time, never refetched
	PriceToSMA50    *float64 `json:"priceToSma50,omitempty"`
	PriceToSMA200   *float64 `json:"priceToSma200,omitempty"`
	PriceToYearHigh *float64 `json:"priceToYearHigh,omitempty"`
	PriceToYearLow  *float64 `json:"priceToYearLow,omitempty"`

	// Tier 2: fundamental ratio fields
	PE               *float64 `json:"pe,omitempty"`
	PEG              *float64 `json:"peg,omitempty"`
	PB               *float64 `json:"pb,omitempty"`
	PS               *float64 `json:"ps,omitempty"`
	PFCF             *float64 `json:"pfcf,omitempty"`
	EVEBITDA         *float64 `json:"evEbitda,omitempty"`
	DividendYield    *float64 `json:"dividendYield,omitempty"`
	PayoutRatio      *float64 `json:"payoutRatio,omitempty"`
	GrossMargin      *float64 `json:"grossMargin,omitempty"`
	OperatingMargin  *float64 `json:"operatingMargin,omitempty"`
	NetMargin        *float64 `json:"netMargin,omitempty"`
	ROA              *float64 `json:"roa,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	ROCE             *float64 `json:"roce,omitempty"`
	CurrentRatio     *float64 `json:"currentRatio,omitempty"`
	QuickRatio       *float64 `json:"quickRatio,omitempty"`
	CashRatio        *float64 `json:"cashRatio,omitempty"`
	DebtRatio        *float64 `json:"debtRatio,omitempty"`
	DebtEquity       *float64 `json:"debtEquity,omitempty"`
	InterestCoverage *float64 `json:"interestCoverage,omitempty"`
	AssetTurnover    *float64 `json:"assetTurnover,omitempty"`
	InventoryTurn    *float64 `json:"inventoryTurnover,omitempty"`
	EPS              *float64 `json:"eps,omitempty"`
	FCFPerShare      *float64 `json:"fcfPerShare,omitempty"`
}

// MergeQuote attaches a quote record and computes the derived trend and
// proximity ratios. Ratios with a zero denominator stay nil.
func (c *EnrichedCandidate) MergeQuote(q QuoteRecord) {
	c.QuotePrice = ptr(q.Price)
	c.ChangePct = ptr(q.ChangesPercentage)
	c.DayLow = ptr(q.DayLow)
	c.DayHigh = ptr(q.DayHigh)
	c.YearLow = ptr(q.YearLow)
	c.YearHigh = ptr(q.YearHigh)
	c.PriceAvg50 = ptr(q.PriceAvg50)
	c.PriceAvg200 = ptr(q.PriceAvg200)
	c.QuoteVolume = ptrInt(q.Volume)
	c.AvgVolume = ptrInt(q.AvgVolume)
	c.Open = ptr(q.Open)
	c.PreviousClose = ptr(q.PreviousClose)

	if q.PriceAvg50 > 0 {
		c.PriceToSMA50 = ptr(q.Price / q.PriceAvg50)
	}
	if q.PriceAvg200 > 0 {
		c.PriceToSMA200 = ptr(q.Price / q.PriceAvg200)
	}
	if q.YearHigh > 0 {
		c.PriceToYearHigh = ptr(q.Price / q.YearHigh)
	}
	if q.YearLow > 0 {
		c.PriceToYearLow = ptr(q.Price / q.YearLow)
	}
}

// MergeRatios attaches a fundamental-ratio snapshot.
func (c *EnrichedCandidate) MergeRatios(r RatioRecord) {
	c.PE = ptr(r.PE)
	c.PEG = ptr(r.PEG)
	c.PB = ptr(r.PB)
	c.PS = ptr(r.PS)
	c.PFCF = ptr(r.PFCF)
	c.EVEBITDA = ptr(r.EVEBITDA)
	c.DividendYield = ptr(r.DividendYield)
	c.PayoutRatio = ptr(r.PayoutRatio)
	c.GrossMargin = ptr(r.GrossMargin)
	c.OperatingMargin = ptr(r.OperatingMargin)
	c.NetMargin = ptr(r.NetMargin)
	c.ROA = ptr(r.ROA)
	c.ROE = ptr(r.ROE)
	c.ROCE = ptr(r.ROCE)
	c.CurrentRatio = ptr(r.CurrentRatio)
	c.QuickRatio = ptr(r.QuickRatio)
	c.CashRatio = ptr(r.CashRatio)
	c.DebtRatio = ptr(r.DebtRatio)
	c.DebtEquity = ptr(r.DebtEquity)
	c.InterestCoverage = ptr(r.InterestCoverage)
	c.AssetTurnover = ptr(r.AssetTurnover)
	c.InventoryTurn = ptr(r.InventoryTurn)
	c.EPS = ptr(r.EPS)
	c.FCFPerShare = ptr(r.FCFPerShare)
}

func ptr(v float64) *float64 { return &v }
func ptrInt(v int64) *int64  { return &v }
