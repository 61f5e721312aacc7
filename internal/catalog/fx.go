package catalog

import (
	"github.com/smallbiznis/washdesk/internal/catalog/repository"
	"github.com/smallbiznis/washdesk/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
