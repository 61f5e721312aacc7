package main

import (
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/migration"
	"github.com/smallbiznis/washdesk/internal/observability"
	"github.com/smallbiznis/washdesk/internal/ratelimit"
	"github.com/smallbiznis/washdesk/internal/scheduler"
	"github.com/smallbiznis/washdesk/internal/server"
	"github.com/smallbiznis/washdesk/pkg/db"
	"go.uber.org/fx"
)

// Single process: HTTP API, migrations and background jobs.
func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		ratelimit.Module,
		migration.Module,

		// server.Module carries every domain module
		server.Module,
		scheduler.Module,
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
