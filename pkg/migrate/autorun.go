package migrate

import (
	"context"
	"fmt"

	"github.com/tillpoint/tillpoint-backend/pkg/config"
	"github.com/tillpoint/tillpoint-backend/pkg/db"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

// MaybeRunDev migrates the schema automatically when the app runs in dev
// mode with the auto-migrate flag set. The sqlite backend has no goose
// migration set, so it goes through GORM's AutoMigrate instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.App.AutoMigrate {
		return nil
	}

	if cfg.DB.UseSQLite {
		logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "running GORM auto-migration (sqlite dev)")
		return AutoMigrate(client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, "postgres", DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrate creates or updates the schema from the model definitions.
func AutoMigrate(client *db.Client) error {
	return client.DB().AutoMigrate(
		&models.Item{},
		&models.Sale{},
		&models.SaleLineItem{},
	)
}
