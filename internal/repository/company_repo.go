package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vnstock-service/internal/dto"
	"vnstock-service/internal/model"
	"vnstock-service/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, company *model.Company) error
	Exists(ctx context.Context, ticker string) (bool, error)
	GetByTicker(ctx context.Context, ticker string) (*model.Company, error)
	GetByTickers(ctx context.Context, tickers []string) ([]model.Company, error)
	List(ctx context.Context, param dto.ListCompaniesParam) ([]model.Company, int64, error)
	Search(ctx context.Context, query string, limit int) ([]model.Company, error)
	Top(ctx context.Context, param dto.TopCompaniesParam) ([]model.Company, error)
	Stats(ctx context.Context, group string) ([]dto.GroupStat, error)
	Similar(ctx context.Context, ticker string, limit int) ([]model.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// companyUpdateColumns lists every column overwritten on conflict. The
// primary key, the conflict key and created_at stay untouched so the
// first-insert timestamp survives re-syncs.
var companyUpdateColumns = []string{
	"name_vi", "name_en", "industry_activity", "industry_group_id",
	"industry_slug", "industry_name", "sector_id", "sector_slug",
	"sector_name", "exchange", "country", "security_type", "website",
	"image_url",
	"price_close", "price_open", "price_high", "price_low",
	"price_floor", "price_ceiling", "price_reference", "net_change",
	"pct_change", "volume", "avg_volume_10d", "market_cap",
	"price_timestamp",
	"pe_ratio", "pb_ratio", "eps_ratio", "book_value", "roe", "roa",
	"revenue_5y_growth", "net_income_5y_growth", "revenue_ltm_growth",
	"net_income_ltm_growth", "free_float_rate", "dividend_yield",
	"beta_5y",
	"valuation_point", "growth_point", "quality_point", "risk_level",
	"technical_signal", "watchlist_count", "analysis_updated",
	"updated_at",
}

// allowedSortColumns whitelists the sortable columns of the list endpoint.
var allowedSortColumns = map[string]string{
	"ticker":     "ticker",
	"priceClose": "price_close",
	"pctChange":  "pct_change",
	"volume":     "volume",
	"marketCap":  "market_cap",
	"peRatio":    "pe_ratio",
	"updatedAt":  "updated_at",
}

// topRankColumns maps the top-N ranking kinds onto columns. trade_value
// is derived, the others rank a stored column directly.
var topRankColumns = map[string]string{
	"pct_change":  "pct_change",
	"volume":      "volume",
	"trade_value": "(price_close * volume)",
	"market_cap":  "market_cap",
}

func (r *companyRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Company{}); err != nil {
		return fmt.Errorf("failed to migrate companies table: %w", err)
	}
	return nil
}

func (r *companyRepository) Upsert(ctx context.Context, company *model.Company) error {
	company.Ticker = utils.NormalizeTicker(company.Ticker)
	if company.Ticker == "" {
		return fmt.Errorf("cannot upsert company with empty ticker")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns(companyUpdateColumns),
	}).Create(company).Error
}

func (r *companyRepository) Exists(ctx context.Context, ticker string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Company{}).
		Where("ticker = ?", utils.NormalizeTicker(ticker)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *companyRepository) GetByTicker(ctx context.Context, ticker string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("ticker = ?", utils.NormalizeTicker(ticker)).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) GetByTickers(ctx context.Context, tickers []string) ([]model.Company, error) {
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		normalized = append(normalized, utils.NormalizeTicker(t))
	}

	var companies []model.Company
	err := r.db.WithContext(ctx).
		Where("ticker IN ?", normalized).
		Order("ticker ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) List(ctx context.Context, param dto.ListCompaniesParam) ([]model.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Company{})

	if param.Exchange != "" {
		query = query.Where("exchange = ?", strings.ToUpper(param.Exchange))
	}
	if param.IndustrySlug != "" {
		query = query.Where("industry_slug = ?", param.IndustrySlug)
	}
	if param.SectorSlug != "" {
		query = query.Where("sector_slug = ?", param.SectorSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn, ok := allowedSortColumns[param.SortBy]
	if !ok {
		sortColumn = "ticker"
	}
	order := "ASC"
	if strings.EqualFold(param.SortOrder, "desc") {
		order = "DESC"
	}

	page := param.Page
	if page < 1 {
		page = 1
	}
	limit := param.Limit
	if limit < 1 {
		limit = 20
	}

	var companies []model.Company
	err := query.
		Order(fmt.Sprintf("%s %s NULLS LAST", sortColumn, order)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *companyRepository) Search(ctx context.Context, query string, limit int) ([]model.Company, error) {
	if limit < 1 {
		limit = 20
	}
	pattern := "%" + strings.TrimSpace(query) + "%"

	var companies []model.Company
	err := r.db.WithContext(ctx).
		Where("ticker ILIKE ? OR name_vi ILIKE ? OR name_en ILIKE ?", pattern, pattern, pattern).
		Order("ticker ASC").
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) Top(ctx context.Context, param dto.TopCompaniesParam) ([]model.Company, error) {
	rankExpr, ok := topRankColumns[param.By]
	if !ok {
		rankExpr = "pct_change"
	}
	order := "DESC"
	if strings.EqualFold(param.Direction, "asc") {
		order = "ASC"
	}
	limit := param.Limit
	if limit < 1 {
		limit = 10
	}

	var companies []model.Company
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s IS NOT NULL", rankExpr)).
		Order(fmt.Sprintf("%s %s", rankExpr, order)).
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) Stats(ctx context.Context, group string) ([]dto.GroupStat, error) {
	groupColumn := "exchange"
	switch group {
	case "industry":
		groupColumn = "industry_slug"
	case "sector":
		groupColumn = "sector_slug"
	}

	var stats []dto.GroupStat
	err := r.db.WithContext(ctx).Model(&model.Company{}).
		Select(fmt.Sprintf(`%s AS group_key,
			COUNT(*) AS count,
			AVG(pct_change) AS avg_pct_change,
			SUM(volume) AS total_volume,
			AVG(pe_ratio) AS avg_pe_ratio`, groupColumn)).
		Where(fmt.Sprintf("%s IS NOT NULL", groupColumn)).
		Group(groupColumn).
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Similar returns companies sharing the ticker's industry, ordered by
// market-cap proximity.
func (r *companyRepository) Similar(ctx context.Context, ticker string, limit int) ([]model.Company, error) {
	base, err := r.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if base.IndustrySlug == nil {
		return nil, nil
	}
	if limit < 1 {
		limit = 10
	}

	query := r.db.WithContext(ctx).
		Where("industry_slug = ?", *base.IndustrySlug).
		Where("ticker <> ?", base.Ticker)

	if base.MarketCap != nil {
		query = query.Order(fmt.Sprintf("ABS(COALESCE(market_cap, 0) - %f) ASC", *base.MarketCap))
	} else {
		query = query.Order("market_cap DESC NULLS LAST")
	}

	var companies []model.Company
	if err := query.Limit(limit).Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}
