package components

import (
	"houseboat-booking/internal/handler"
	"houseboat-booking/internal/handler/api"
	"houseboat-booking/internal/handler/middleware"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAdminBookingHandler,
		api.NewAvailabilityHandler,
		api.NewPaymentHandler,
		func(pool *pgxpool.Pool) *api.HealthHandler { return api.NewHealthHandler(pool) },
		NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	booking *api.BookingHandler,
	admin *api.AdminBookingHandler,
	availability *api.AvailabilityHandler,
	payment *api.PaymentHandler,
	health *api.HealthHandler,
) handler.Handlers {
	return handler.Handlers{
		Booking:      booking,
		Admin:        admin,
		Availability: availability,
		Payment:      payment,
		Health:       health,
	}
}
