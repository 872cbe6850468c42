package push

import (
	"github.com/spotnere/backend/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.push",
	fx.Provide(func(cfg config.Config) Provider {
		if !cfg.PushEnabled || cfg.PushEndpoint == "" {
			return &NoOpProvider{}
		}
		return NewExpoProvider(cfg.PushEndpoint)
	}),
)
