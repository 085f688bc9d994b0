package migrate

import (
	"context"
	"fmt"

	"github.com/solenne-shop/solenne-backend/pkg/config"
	"github.com/solenne-shop/solenne-backend/pkg/db"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot. It is a no-op outside dev
// or with the auto-migrate flag off; deployed environments migrate through
// cmd/migrate so schema changes never ride along with an app restart.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	pool, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "dir", DefaultDir)
	logg.Info(ctx, "applying pending migrations (dev auto-run)")
	if err := Run(ctx, pool, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrations up to date")
	return nil
}
