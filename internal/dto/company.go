package dto

// SummaryEnvelope is the wire shape of the upstream summary endpoint:
// { "pageProps": { "summary": {...} } }. A nil Summary means the source
// has no data for the ticker.
type SummaryEnvelope struct {
	PageProps PageProps `json:"pageProps"`
}

type PageProps struct {
	Summary *RawCompanySummary `json:"summary"`
}

// RawCompanySummary mirrors the source payload field-for-field, including
// its misspelled "priceReferrance" key. Everything is optional, the
// transformer is the only consumer.
type RawCompanySummary struct {
	Ticker           *string `json:"ticker"`
	Name             *string `json:"name"`
	NameEn           *string `json:"nameEn"`
	IndustryActivity *string `json:"industryActivity"`
	IndustryGroupID  *int64  `json:"bcIndustryGroupId"`
	IndustrySlug     *string `json:"bcIndustryGroupSlug"`
	IndustryName     *string `json:"bcIndustryGroupName"`
	SectorID         *int64  `json:"bcEconomicSectorId"`
	SectorSlug       *string `json:"bcEconomicSectorSlug"`
	SectorName       *string `json:"bcEconomicSectorName"`
	StockExchange    *string `json:"stockExchange"`
	Country          *string `json:"country"`
	Type             *string `json:"type"`
	Website          *string `json:"website"`
	ImageURL         *string `json:"imageUrl"`

	PriceClose     *float64 `json:"priceClose"`
	PriceOpen      *float64 `json:"priceOpen"`
	PriceHigh      *float64 `json:"priceHigh"`
	PriceLow       *float64 `json:"priceLow"`
	PriceFloor     *float64 `json:"priceFloor"`
	PriceCeiling   *float64 `json:"priceCeiling"`
	PriceReference *float64 `json:"priceReferrance"`
	NetChange      *float64 `json:"netChange"`
	PctChange      *float64 `json:"pctChange"`
	Volume         *float64 `json:"volume"`
	Volume10DayAvg *float64 `json:"volume10dAvg"`
	MarketCap      *float64 `json:"marketCap"`
	PriceTimeStamp *string  `json:"priceTimeStamp"`

	PERatio            *float64 `json:"peRatio"`
	PBRatio            *float64 `json:"pbRatio"`
	EPSRatio           *float64 `json:"epsRatio"`
	BookValue          *float64 `json:"bookValue"`
	ROE                *float64 `json:"roe"`
	ROA                *float64 `json:"roa"`
	Revenue5YGrowth    *float64 `json:"revenue5yGrowth"`
	NetIncome5YGrowth  *float64 `json:"netIncome5yGrowth"`
	RevenueLTMGrowth   *float64 `json:"revenueLtmGrowth"`
	NetIncomeLTMGrowth *float64 `json:"netIncomeLtmGrowth"`
	FreeFloatRate      *float64 `json:"freeFloatRate"`
	DividendYield      *float64 `json:"dividendYieldCurrent"`
	Beta5Y             *float64 `json:"beta5y"`

	ValuationPoint  *float64 `json:"valuationPoint"`
	GrowthPoint     *float64 `json:"growthPoint"`
	QualityPoint    *float64 `json:"companyQualityPoint"`
	RiskLevel       *string  `json:"overallRiskLevel"`
	TechnicalSignal *string  `json:"taSignal1d"`
	WatchlistCount  *int64   `json:"watchlistCount"`
	AnalysisUpdated *string  `json:"analysisUpdated"`
}

// ListCompaniesParam is the bound query for the paginated list endpoint.
type ListCompaniesParam struct {
	Exchange     string `query:"exchange"`
	IndustrySlug string `query:"industry"`
	SectorSlug   string `query:"sector"`
	SortBy       string `query:"sortBy"`
	SortOrder    string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page         int    `query:"page" validate:"omitempty,min=1"`
	Limit        int    `query:"limit" validate:"omitempty,min=1,max=200"`
}

type SearchCompaniesParam struct {
	Query string `query:"q" validate:"required,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type TopCompaniesParam struct {
	By        string `query:"by" validate:"omitempty,oneof=pct_change volume trade_value market_cap"`
	Direction string `query:"direction" validate:"omitempty,oneof=asc desc"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type CompanyStatsParam struct {
	Group string `query:"group" validate:"omitempty,oneof=exchange industry sector"`
}

// GroupStat is one aggregate row of the stats endpoint.
type GroupStat struct {
	GroupKey     string   `json:"group"`
	Count        int64    `json:"count"`
	AvgPctChange *float64 `json:"avgPctChange"`
	TotalVolume  *float64 `json:"totalVolume"`
	AvgPERatio   *float64 `json:"avgPeRatio"`
}
