package service

import (
	"vnstock-service/config"
	"vnstock-service/internal/repository"
	"vnstock-service/pkg/cache"
	"vnstock-service/pkg/logger"
)

type Service struct {
	CompanyService CompanyService
	SyncService    SyncService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	return &Service{
		CompanyService: NewCompanyService(cfg, log, repo.CompanyRepo, inmemoryCache),
		SyncService:    NewSyncService(cfg, log, repo.CompanyRepo, repo.CompanySourceRepo, repo.UniverseRepo),
	}
}
