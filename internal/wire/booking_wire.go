package wire

import (
	"roomblock/internal/adaptor"
	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Public microsite routes. Private events are gated by the guest
	// roster inside the service, not by a session; a bearer token is
	// still honored when present so planners and admins pass the gate.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthSession(repo.Session, repo.User, log))

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/payment-order", bookingHandler.CreatePaymentOrder)
		r.Post("/api/bookings/{id}/confirm-payment", bookingHandler.ConfirmPayment)
	})

	// Planner dashboard
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RolePlanner, log))

		r.Get("/api/bookings", bookingHandler.ListBookings)
		r.Put("/api/bookings/{id}/approve", bookingHandler.ApproveBooking)
		r.Put("/api/bookings/{id}/reject", bookingHandler.RejectBooking)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})

	// Hotel front desk
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RoleHotel, log))

		r.Put("/api/bookings/{id}/check-in", bookingHandler.CheckIn)
		r.Put("/api/bookings/{id}/check-out", bookingHandler.CheckOut)
	})
}
