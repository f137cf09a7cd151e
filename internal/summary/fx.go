package summary

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/ticketline/internal/summary/service"
)

var Module = fx.Module("summary.service",
	fx.Provide(service.NewGenerator),
)
