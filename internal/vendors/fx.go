package vendors

import (
	"github.com/solobill/solobill/internal/vendors/repository"
	"github.com/solobill/solobill/internal/vendors/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendors.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
