package model

import (
	"time"
)

// Company is the canonical company record, one row per ticker. Nullable
// pointer fields mirror attributes the upstream source may omit.
type Company struct {
	ID     uint   `gorm:"primarykey" json:"-"`
	Ticker string `gorm:"uniqueIndex;not null" json:"ticker"`

	// Identity and classification
	NameVi           *string `json:"nameVi,omitempty"`
	NameEn           *string `json:"nameEn,omitempty"`
	IndustryActivity *string `json:"industryActivity,omitempty"`
	IndustryGroupID  *int64  `json:"industryGroupId,omitempty"`
	IndustrySlug     *string `gorm:"index" json:"industrySlug,omitempty"`
	IndustryName     *string `json:"industryName,omitempty"`
	SectorID         *int64  `json:"sectorId,omitempty"`
	SectorSlug       *string `gorm:"index" json:"sectorSlug,omitempty"`
	SectorName       *string `json:"sectorName,omitempty"`
	Exchange         *string `gorm:"index" json:"exchange,omitempty"`
	Country          *string `json:"country,omitempty"`
	SecurityType     *string `json:"securityType,omitempty"`
	Website          *string `json:"website,omitempty"`
	ImageURL         *string `json:"imageUrl,omitempty"`

	// Point-in-time market data
	PriceClose     *float64   `json:"priceClose,omitempty"`
	PriceOpen      *float64   `json:"priceOpen,omitempty"`
	PriceHigh      *float64   `json:"priceHigh,omitempty"`
	PriceLow       *float64   `json:"priceLow,omitempty"`
	PriceFloor     *float64   `json:"priceFloor,omitempty"`
	PriceCeiling   *float64   `json:"priceCeiling,omitempty"`
	PriceReference *float64   `json:"priceReference,omitempty"`
	NetChange      *float64   `json:"netChange,omitempty"`
	PctChange      *float64   `json:"pctChange,omitempty"`
	Volume         *float64   `json:"volume,omitempty"`
	Volume10DayAvg *float64   `gorm:"column:avg_volume_10d" json:"volume10dAvg,omitempty"`
	MarketCap      *float64   `json:"marketCap,omitempty"`
	PriceTimestamp *time.Time `json:"priceTimestamp,omitempty"`

	// Valuation and fundamental ratios
	PERatio            *float64 `json:"peRatio,omitempty"`
	PBRatio            *float64 `json:"pbRatio,omitempty"`
	EPSRatio           *float64 `json:"epsRatio,omitempty"`
	BookValue          *float64 `json:"bookValue,omitempty"`
	ROE                *float64 `json:"roe,omitempty"`
	ROA                *float64 `json:"roa,omitempty"`
	Revenue5YGrowth    *float64 `gorm:"column:revenue_5y_growth" json:"revenue5yGrowth,omitempty"`
	NetIncome5YGrowth  *float64 `gorm:"column:net_income_5y_growth" json:"netIncome5yGrowth,omitempty"`
	RevenueLTMGrowth   *float64 `gorm:"column:revenue_ltm_growth" json:"revenueLtmGrowth,omitempty"`
	NetIncomeLTMGrowth *float64 `gorm:"column:net_income_ltm_growth" json:"netIncomeLtmGrowth,omitempty"`
	FreeFloatRate      *float64 `json:"freeFloatRate,omitempty"`
	DividendYield      *float64 `json:"dividendYield,omitempty"`
	Beta5Y             *float64 `gorm:"column:beta_5y" json:"beta5y,omitempty"`

	// Scored / derived fields
	ValuationPoint  *float64   `json:"valuationPoint,omitempty"`
	GrowthPoint     *float64   `json:"growthPoint,omitempty"`
	QualityPoint    *float64   `json:"qualityPoint,omitempty"`
	RiskLevel       *string    `json:"riskLevel,omitempty"`
	TechnicalSignal *string    `json:"technicalSignal,omitempty"`
	WatchlistCount  *int64     `json:"watchlistCount,omitempty"`
	AnalysisUpdated *time.Time `json:"analysisUpdated,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Company) TableName() string {
	return "companies"
}
