package handlers

import (
	"github.com/jmoiron/sqlx"

	"projectpan/internal/config"
	"projectpan/internal/repos"
	"projectpan/internal/services"
)

type Deps struct {
	Auth            *services.AuthService
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	UsageHandler    *UsageHandler
	BackupHandler   *BackupHandler
	HomeHandler     *HomeHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	usageRepo := repos.NewUsageRepo(db)
	attemptRepo := repos.NewAttemptRepo(db)
	backupRepo := repos.NewBackupRepo(db)

	authSvc := services.NewAuthService(attemptRepo, cfg)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	usageSvc := services.NewUsageService(usageRepo)
	backupSvc := services.NewBackupService(backupRepo)

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc, Cfg: cfg},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		UsageHandler:    &UsageHandler{Usage: usageSvc},
		BackupHandler:   &BackupHandler{Backup: backupSvc, Cfg: cfg},
		HomeHandler:     &HomeHandler{Prods: prodRepo},
	}
}
