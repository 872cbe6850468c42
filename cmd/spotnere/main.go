package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/spotnere/backend/internal/booking"
	"github.com/spotnere/backend/internal/config"
	"github.com/spotnere/backend/internal/gateway"
	"github.com/spotnere/backend/internal/migration"
	"github.com/spotnere/backend/internal/notification"
	obsmetrics "github.com/spotnere/backend/internal/observability/metrics"
	"github.com/spotnere/backend/internal/providers/push"
	"github.com/spotnere/backend/internal/server"
	"github.com/spotnere/backend/pkg/db"
	"github.com/spotnere/backend/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		obsmetrics.Module,

		gateway.Module,
		push.Module,
		notification.Module,
		booking.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
