package migration

import (
	"context"

	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		log = log.Named("migrations")
		if err := Apply(context.Background(), conn); err != nil {
			return err
		}
		log.Info("schema up to date", zap.String("dialect", conn.Dialector.Name()))

		if !cfg.Bootstrap.EnsureDemoCompany || cfg.IsProduction() {
			return nil
		}
		companyID, err := seed.EnsureDemoCompany(conn, cfg.Bootstrap)
		if err != nil {
			return err
		}
		log.Info("demo company ready",
			zap.String("company_id", companyID.String()),
			zap.String("owner_email", cfg.Bootstrap.OwnerEmail),
		)
		return nil
	}),
)
