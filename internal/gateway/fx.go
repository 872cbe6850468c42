package gateway

import (
	gatewaydomain "github.com/spotnere/backend/internal/gateway/domain"
	"github.com/spotnere/backend/internal/gateway/razorpay"
	"go.uber.org/fx"
)

var Module = fx.Module("gateway",
	fx.Provide(func(client *razorpay.Client) gatewaydomain.Adapter { return client }),
	fx.Provide(razorpay.NewClient),
)
