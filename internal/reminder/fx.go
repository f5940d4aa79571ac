package reminder

import (
	"github.com/solobill/solobill/internal/reminder/repository"
	"github.com/solobill/solobill/internal/reminder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reminder.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.NewDispatcher),
)
