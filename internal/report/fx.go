package report

import (
	"github.com/solobill/solobill/internal/report/repository"
	"github.com/solobill/solobill/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
