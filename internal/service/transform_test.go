package service

import (
	"context"
	"testing"
	"time"

	"vnstock-service/internal/dto"
	"vnstock-service/pkg/logger"
	"vnstock-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return utils.ToPointer(s) }

func floatPtr(f float64) *float64 { return utils.ToPointer(f) }

func TestTransformSummary_FieldMapping(t *testing.T) {
	raw := &dto.RawCompanySummary{
		Ticker:         strPtr("vic"),
		Name:           strPtr("Tập đoàn Vingroup"),
		NameEn:         strPtr("Vingroup JSC"),
		StockExchange:  strPtr("HOSE"),
		PriceClose:     floatPtr(42500),
		PriceReference: floatPtr(42000),
		PctChange:      floatPtr(1.19),
		PERatio:        floatPtr(18.4),
		PriceTimeStamp: strPtr("05/03/2024 09:30:00"),
	}

	company := transformSummary(context.Background(), logger.NewNop(), "vic", raw)

	assert.Equal(t, "VIC", company.Ticker)
	require.NotNil(t, company.NameVi)
	assert.Equal(t, "Tập đoàn Vingroup", *company.NameVi)
	require.NotNil(t, company.Exchange)
	assert.Equal(t, "HOSE", *company.Exchange)

	// priceReferrance on the wire lands in priceReference canonically.
	require.NotNil(t, company.PriceReference)
	assert.Equal(t, 42000.0, *company.PriceReference)

	require.NotNil(t, company.PriceTimestamp)
	want := time.Date(2024, time.March, 5, 9, 30, 0, 0, utils.VNTimeLocation())
	assert.True(t, want.Equal(*company.PriceTimestamp))
}

func TestTransformSummary_UnparseableDatesAreDropped(t *testing.T) {
	raw := &dto.RawCompanySummary{
		Ticker:          strPtr("FPT"),
		PriceTimeStamp:  strPtr("not-a-date"),
		AnalysisUpdated: strPtr("also//bad"),
		PriceClose:      floatPtr(98000),
	}

	var company = transformSummary(context.Background(), logger.NewNop(), "FPT", raw)

	assert.Nil(t, company.PriceTimestamp)
	assert.Nil(t, company.AnalysisUpdated)
	require.NotNil(t, company.PriceClose)
	assert.Equal(t, 98000.0, *company.PriceClose)
}

func TestTransformSummary_TickerFallsBackToRequested(t *testing.T) {
	company := transformSummary(context.Background(), logger.NewNop(), "hpg", &dto.RawCompanySummary{})
	assert.Equal(t, "HPG", company.Ticker)
}
