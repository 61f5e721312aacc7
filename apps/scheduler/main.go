package main

import (
	_ "time/tzdata"

	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/followup"
	"github.com/smallbiznis/washdesk/internal/observability"
	"github.com/smallbiznis/washdesk/internal/ratelimit"
	"github.com/smallbiznis/washdesk/internal/scheduler"
	"github.com/smallbiznis/washdesk/internal/space"
	"github.com/smallbiznis/washdesk/pkg/db"
	"go.uber.org/fx"
)

// Scheduler-only process. Migrations are left to the API binary.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		ratelimit.Module,

		followup.Module,
		space.Module,

		scheduler.Module,
	)
	app.Run()
}
