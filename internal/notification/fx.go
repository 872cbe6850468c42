package notification

import (
	"github.com/spotnere/backend/internal/notification/repository"
	"github.com/spotnere/backend/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
