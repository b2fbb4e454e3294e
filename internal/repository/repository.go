package repository

import (
	"vnstock-service/config"
	"vnstock-service/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	CompanyRepo       CompanyRepository
	CompanySourceRepo CompanySourceRepository
	UniverseRepo      UniverseRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		CompanyRepo:       NewCompanyRepository(db),
		CompanySourceRepo: NewCompanySourceRepository(cfg, log),
		UniverseRepo:      NewUniverseRepository(cfg.Sync.UniverseFile),
	}
}
