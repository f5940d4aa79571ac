package migration

import (
	"github.com/solobill/solobill/internal/config"
	"github.com/solobill/solobill/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		if cfg.DefaultOrgID != 0 {
			return seed.EnsureDefaultOrgWithID(conn, cfg.DefaultOrgID, cfg.CompanyName, cfg.CompanyEmail)
		}
		return seed.EnsureDefaultOrg(conn, cfg.CompanyName, cfg.CompanyEmail)
	}),
)
