package financial

import (
	"github.com/smallbiznis/washdesk/internal/financial/repository"
	"github.com/smallbiznis/washdesk/internal/financial/service"
	"go.uber.org/fx"
)

var Module = fx.Module("financial.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
