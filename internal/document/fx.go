package document

import (
	"github.com/solobill/solobill/internal/document/repository"
	"github.com/solobill/solobill/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
