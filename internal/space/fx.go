package space

import (
	"github.com/smallbiznis/washdesk/internal/space/repository"
	"github.com/smallbiznis/washdesk/internal/space/service"
	"go.uber.org/fx"
)

var Module = fx.Module("space.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
