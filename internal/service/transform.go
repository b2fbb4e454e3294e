package service

import (
	"context"
	"time"

	"vnstock-service/internal/dto"
	"vnstock-service/internal/model"
	"vnstock-service/pkg/logger"
	"vnstock-service/pkg/utils"
)

// transformSummary maps one raw source summary onto the canonical company
// record. Unparseable date fields are dropped with a warning, everything
// else is a straight rename. The function never fails: a summary that got
// this far always yields a record.
func transformSummary(ctx context.Context, log *logger.Logger, ticker string, raw *dto.RawCompanySummary) *model.Company {
	company := &model.Company{
		Ticker: utils.NormalizeTicker(ticker),

		NameVi:           raw.Name,
		NameEn:           raw.NameEn,
		IndustryActivity: raw.IndustryActivity,
		IndustryGroupID:  raw.IndustryGroupID,
		IndustrySlug:     raw.IndustrySlug,
		IndustryName:     raw.IndustryName,
		SectorID:         raw.SectorID,
		SectorSlug:       raw.SectorSlug,
		SectorName:       raw.SectorName,
		Exchange:         raw.StockExchange,
		Country:          raw.Country,
		SecurityType:     raw.Type,
		Website:          raw.Website,
		ImageURL:         raw.ImageURL,

		PriceClose:     raw.PriceClose,
		PriceOpen:      raw.PriceOpen,
		PriceHigh:      raw.PriceHigh,
		PriceLow:       raw.PriceLow,
		PriceFloor:     raw.PriceFloor,
		PriceCeiling:   raw.PriceCeiling,
		PriceReference: raw.PriceReference,
		NetChange:      raw.NetChange,
		PctChange:      raw.PctChange,
		Volume:         raw.Volume,
		Volume10DayAvg: raw.Volume10DayAvg,
		MarketCap:      raw.MarketCap,

		PERatio:            raw.PERatio,
		PBRatio:            raw.PBRatio,
		EPSRatio:           raw.EPSRatio,
		BookValue:          raw.BookValue,
		ROE:                raw.ROE,
		ROA:                raw.ROA,
		Revenue5YGrowth:    raw.Revenue5YGrowth,
		NetIncome5YGrowth:  raw.NetIncome5YGrowth,
		RevenueLTMGrowth:   raw.RevenueLTMGrowth,
		NetIncomeLTMGrowth: raw.NetIncomeLTMGrowth,
		FreeFloatRate:      raw.FreeFloatRate,
		DividendYield:      raw.DividendYield,
		Beta5Y:             raw.Beta5Y,

		ValuationPoint:  raw.ValuationPoint,
		GrowthPoint:     raw.GrowthPoint,
		QualityPoint:    raw.QualityPoint,
		RiskLevel:       raw.RiskLevel,
		TechnicalSignal: raw.TechnicalSignal,
		WatchlistCount:  raw.WatchlistCount,
	}

	if raw.Ticker != nil && *raw.Ticker != "" {
		company.Ticker = utils.NormalizeTicker(*raw.Ticker)
	}

	company.PriceTimestamp = parseDateField(ctx, log, company.Ticker, "priceTimeStamp", raw.PriceTimeStamp)
	company.AnalysisUpdated = parseDateField(ctx, log, company.Ticker, "analysisUpdated", raw.AnalysisUpdated)

	return company
}

func parseDateField(ctx context.Context, log *logger.Logger, ticker, field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	parsed, err := utils.ParseSourceDate(*value)
	if err != nil {
		log.WarnContext(ctx, "Dropping unparseable date field",
			logger.StringField("ticker", ticker),
			logger.StringField("field", field),
			logger.StringField("value", *value),
			logger.ErrorField(err))
		return nil
	}
	return &parsed
}
