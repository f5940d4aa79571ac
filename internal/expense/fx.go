package expense

import (
	"github.com/solobill/solobill/internal/expense/repository"
	"github.com/solobill/solobill/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
