// API-only entrypoint. Pair with apps/scheduler when splitting the
// deployment; the dispatch lock keeps the two from double-sending.
package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/config"
	"github.com/solobill/solobill/internal/observability"
	"github.com/solobill/solobill/internal/seed"
	"github.com/solobill/solobill/internal/server"
	"github.com/solobill/solobill/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		server.Module,

		fx.Invoke(SeedDefaultOrg),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func SeedDefaultOrg(conn *gorm.DB, cfg config.Config) error {
	if cfg.DefaultOrgID != 0 {
		return seed.EnsureDefaultOrgWithID(conn, cfg.DefaultOrgID, cfg.CompanyName, cfg.CompanyEmail)
	}
	return seed.EnsureDefaultOrg(conn, cfg.CompanyName, cfg.CompanyEmail)
}
