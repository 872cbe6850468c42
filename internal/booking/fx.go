package booking

import (
	"github.com/spotnere/backend/internal/booking/repository"
	"github.com/spotnere/backend/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
