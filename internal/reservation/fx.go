package reservation

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/ticketline/internal/reservation/service"
)

var Module = fx.Module("reservation.service",
	fx.Provide(service.NewService),
)
