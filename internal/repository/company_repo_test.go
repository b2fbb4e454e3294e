package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyUpdateColumns_ProtectInsertOnlyFields(t *testing.T) {
	for _, col := range companyUpdateColumns {
		assert.NotEqual(t, "id", col)
		assert.NotEqual(t, "ticker", col, "the conflict key must not be overwritten")
		assert.NotEqual(t, "created_at", col, "created_at is fixed at first insert")
	}
	assert.Contains(t, companyUpdateColumns, "updated_at")
	assert.Contains(t, companyUpdateColumns, "price_reference")
	assert.Contains(t, companyUpdateColumns, "analysis_updated")
}

func TestAllowedSortColumns(t *testing.T) {
	// Every exposed sort key maps onto a plain column name; anything else
	// would open the ORDER BY clause to injection.
	for key, column := range allowedSortColumns {
		assert.NotEmpty(t, key)
		assert.Regexp(t, `^[a-z0-9_]+$`, column)
	}

	_, ok := allowedSortColumns["marketCap"]
	assert.True(t, ok)
	_, ok = allowedSortColumns["createdAt"]
	assert.False(t, ok)
}

func TestTopRankColumns(t *testing.T) {
	for _, kind := range []string{"pct_change", "volume", "trade_value", "market_cap"} {
		_, ok := topRankColumns[kind]
		assert.True(t, ok, "missing rank kind %s", kind)
	}
}
