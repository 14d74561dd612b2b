package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/notestack/notestack/internal/catalog"
	"github.com/notestack/notestack/internal/config"
	"github.com/notestack/notestack/internal/db"
	"github.com/notestack/notestack/internal/repository"
	"github.com/notestack/notestack/internal/service"
	"github.com/notestack/notestack/internal/storage"
	"github.com/notestack/notestack/internal/validation"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Catalog           *catalog.Catalog
	AuthService       *service.AuthService
	IngestService     *service.IngestService
	ModerationService *service.ModerationService
	CatalogService    *service.CatalogService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Classification catalog (immutable configuration)
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %v", err)
		}
	}

	// Repositories
	submissionRepository := repository.NewSubmissionRepository(database)

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	constraints := validation.NewFileConstraints(cfg.AllowedExtensions)
	authService := service.NewAuthService(
		cfg.AdminPassword,
		cfg.AdminPasswordHash,
		cfg.SessionSecret,
		cfg.SessionExpiry,
		cfg.IsProduction(),
	)
	ingestService := service.NewIngestService(submissionRepository, blobStorage, cat, constraints)
	moderationService := service.NewModerationService(submissionRepository, blobStorage)
	catalogService := service.NewCatalogService(submissionRepository, blobStorage, cat)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Catalog:           cat,
		AuthService:       authService,
		IngestService:     ingestService,
		ModerationService: moderationService,
		CatalogService:    catalogService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
