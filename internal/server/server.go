// Package server exposes the HTTP API: client, vendor, invoice, expense,
// payment, document, reminder and report endpoints under /v1.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solobill/solobill/internal/client"
	clientdomain "github.com/solobill/solobill/internal/client/domain"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/config"
	"github.com/solobill/solobill/internal/document"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	"github.com/solobill/solobill/internal/expense"
	expensedomain "github.com/solobill/solobill/internal/expense/domain"
	"github.com/solobill/solobill/internal/invoice"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/mailtemplate"
	"github.com/solobill/solobill/internal/migration"
	"github.com/solobill/solobill/internal/observability"
	obsmiddleware "github.com/solobill/solobill/internal/observability/logger"
	obsmetrics "github.com/solobill/solobill/internal/observability/metrics"
	"github.com/solobill/solobill/internal/payment"
	paymentdomain "github.com/solobill/solobill/internal/payment/domain"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	"github.com/solobill/solobill/internal/providers/pdf"
	"github.com/solobill/solobill/internal/reminder"
	reminderdomain "github.com/solobill/solobill/internal/reminder/domain"
	"github.com/solobill/solobill/internal/report"
	reportdomain "github.com/solobill/solobill/internal/report/domain"
	"github.com/solobill/solobill/internal/vendors"
	vendordomain "github.com/solobill/solobill/internal/vendors/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	migration.Module,
	fx.Provide(registerGin),
	email.Module,
	pdf.Module,
	blob.Module,
	mailtemplate.Module,
	client.Module,
	vendors.Module,
	invoice.Module,
	expense.Module,
	payment.Module,
	document.Module,
	reminder.Module,
	report.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	clock       clock.Clock
	clientSvc   clientdomain.Service
	vendorSvc   vendordomain.Service
	invoiceSvc  invoicedomain.Service
	expenseSvc  expensedomain.Service
	paymentSvc  paymentdomain.Service
	documentSvc documentdomain.Service
	reminderSvc reminderdomain.Service
	dispatcher  reminderdomain.Dispatcher
	reportSvc   reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	Clock       clock.Clock
	ClientSvc   clientdomain.Service
	VendorSvc   vendordomain.Service
	InvoiceSvc  invoicedomain.Service
	ExpenseSvc  expensedomain.Service
	PaymentSvc  paymentdomain.Service
	DocumentSvc documentdomain.Service
	ReminderSvc reminderdomain.Service
	Dispatcher  reminderdomain.Dispatcher
	ReportSvc   reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		clock:       p.Clock,
		clientSvc:   p.ClientSvc,
		vendorSvc:   p.VendorSvc,
		invoiceSvc:  p.InvoiceSvc,
		expenseSvc:  p.ExpenseSvc,
		paymentSvc:  p.PaymentSvc,
		documentSvc: p.DocumentSvc,
		reminderSvc: p.ReminderSvc,
		dispatcher:  p.Dispatcher,
		reportSvc:   p.ReportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.OrgContext())

	clients := v1.Group("/clients")
	clients.POST("", s.CreateClient)
	clients.GET("", s.ListClients)
	clients.GET("/:id", s.GetClientByID)
	clients.PATCH("/:id", s.UpdateClient)
	clients.DELETE("/:id", s.DeleteClient)

	vendors := v1.Group("/vendors")
	vendors.POST("", s.CreateVendor)
	vendors.GET("", s.ListVendors)
	vendors.GET("/:id", s.GetVendorByID)
	vendors.PATCH("/:id", s.UpdateVendor)
	vendors.DELETE("/:id", s.DeleteVendor)

	invoices := v1.Group("/invoices")
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.PATCH("/:id", s.UpdateInvoice)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.POST("/:id/status", s.UpdateInvoiceStatus)
	invoices.POST("/:id/send", s.SendInvoiceEmail)
	invoices.GET("/:id/reminders", s.ListInvoiceReminders)
	invoices.GET("/:id/payments", s.ListInvoicePayments)
	invoices.POST("/:id/payments", s.RecordPayment)

	expenses := v1.Group("/expenses")
	expenses.POST("", s.CreateExpense)
	expenses.GET("", s.ListExpenses)
	expenses.GET("/:id", s.GetExpenseByID)
	expenses.PATCH("/:id", s.UpdateExpense)
	expenses.DELETE("/:id", s.DeleteExpense)

	documents := v1.Group("/documents")
	documents.POST("", s.UploadDocument)
	documents.GET("", s.ListDocuments)
	documents.GET("/:id", s.GetDocumentByID)
	documents.GET("/:id/download", s.DownloadDocument)
	documents.DELETE("/:id", s.DeleteDocument)

	reminders := v1.Group("/reminders")
	reminders.GET("", s.ListReminders)
	reminders.POST("/dispatch", s.DispatchReminders)

	reports := v1.Group("/reports")
	reports.POST("/monthly", s.GenerateMonthlyReport)
}
