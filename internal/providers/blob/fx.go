package blob

import (
	"github.com/solobill/solobill/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.blob",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Store, error) {
	return NewFilesystem(cfg.StorageDir)
}
