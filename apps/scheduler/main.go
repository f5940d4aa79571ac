// Scheduler-only entrypoint. Runs the overdue sweep, reminder dispatch and
// monthly reports without serving HTTP.
package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/client"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/config"
	"github.com/solobill/solobill/internal/document"
	"github.com/solobill/solobill/internal/expense"
	"github.com/solobill/solobill/internal/invoice"
	"github.com/solobill/solobill/internal/mailtemplate"
	"github.com/solobill/solobill/internal/migration"
	"github.com/solobill/solobill/internal/observability"
	"github.com/solobill/solobill/internal/payment"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	"github.com/solobill/solobill/internal/providers/pdf"
	"github.com/solobill/solobill/internal/reminder"
	"github.com/solobill/solobill/internal/report"
	"github.com/solobill/solobill/internal/scheduler"
	"github.com/solobill/solobill/internal/vendors"
	"github.com/solobill/solobill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		email.Module,
		pdf.Module,
		blob.Module,
		mailtemplate.Module,

		// Domain services the jobs walk through.
		client.Module,
		vendors.Module,
		invoice.Module,
		expense.Module,
		payment.Module,
		document.Module,
		reminder.Module,
		report.Module,

		scheduler.Module,
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
