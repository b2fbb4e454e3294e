package service

import (
	"context"
	"fmt"
	"strings"

	"vnstock-service/config"
	"vnstock-service/internal/dto"
	"vnstock-service/internal/model"
	"vnstock-service/internal/repository"
	"vnstock-service/pkg/cache"
	"vnstock-service/pkg/logger"
)

const (
	keyTopCompanies = "companies:top:%s:%s:%d"
	keyCompanyStats = "companies:stats:%s"
)

// CompanyService is the read side over the company store.
type CompanyService interface {
	Get(ctx context.Context, ticker string) (*model.Company, error)
	List(ctx context.Context, param dto.ListCompaniesParam) ([]model.Company, int64, error)
	Search(ctx context.Context, param dto.SearchCompaniesParam) ([]model.Company, error)
	Top(ctx context.Context, param dto.TopCompaniesParam) ([]model.Company, error)
	Stats(ctx context.Context, param dto.CompanyStatsParam) ([]dto.GroupStat, error)
	Compare(ctx context.Context, tickers []string) ([]model.Company, error)
	Similar(ctx context.Context, ticker string, limit int) ([]model.Company, error)
}

type companyService struct {
	cfg         *config.Config
	log         *logger.Logger
	companyRepo repository.CompanyRepository
	cache       cache.Cache
}

func NewCompanyService(cfg *config.Config, log *logger.Logger, companyRepo repository.CompanyRepository, inmemoryCache cache.Cache) CompanyService {
	return &companyService{
		cfg:         cfg,
		log:         log,
		companyRepo: companyRepo,
		cache:       inmemoryCache,
	}
}

func (s *companyService) Get(ctx context.Context, ticker string) (*model.Company, error) {
	return s.companyRepo.GetByTicker(ctx, ticker)
}

func (s *companyService) List(ctx context.Context, param dto.ListCompaniesParam) ([]model.Company, int64, error) {
	return s.companyRepo.List(ctx, param)
}

func (s *companyService) Search(ctx context.Context, param dto.SearchCompaniesParam) ([]model.Company, error) {
	return s.companyRepo.Search(ctx, param.Query, param.Limit)
}

func (s *companyService) Top(ctx context.Context, param dto.TopCompaniesParam) ([]model.Company, error) {
	key := fmt.Sprintf(keyTopCompanies, param.By, param.Direction, param.Limit)
	if cached, found := cache.GetTyped[[]model.Company](s.cache, key); found {
		return cached, nil
	}

	companies, err := s.companyRepo.Top(ctx, param)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, companies, s.cfg.Cache.DefaultExpiration)
	return companies, nil
}

func (s *companyService) Stats(ctx context.Context, param dto.CompanyStatsParam) ([]dto.GroupStat, error) {
	group := param.Group
	if group == "" {
		group = "exchange"
	}

	key := fmt.Sprintf(keyCompanyStats, group)
	if cached, found := cache.GetTyped[[]dto.GroupStat](s.cache, key); found {
		return cached, nil
	}

	stats, err := s.companyRepo.Stats(ctx, group)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, stats, s.cfg.Cache.DefaultExpiration)
	return stats, nil
}

func (s *companyService) Compare(ctx context.Context, tickers []string) ([]model.Company, error) {
	cleaned := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) < 2 {
		return nil, fmt.Errorf("comparison needs at least two tickers")
	}
	return s.companyRepo.GetByTickers(ctx, cleaned)
}

func (s *companyService) Similar(ctx context.Context, ticker string, limit int) ([]model.Company, error) {
	return s.companyRepo.Similar(ctx, ticker, limit)
}
