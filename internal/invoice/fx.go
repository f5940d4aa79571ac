package invoice

import (
	"github.com/solobill/solobill/internal/invoice/repository"
	"github.com/solobill/solobill/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
