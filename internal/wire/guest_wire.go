package wire

import (
	"roomblock/internal/adaptor"
	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireGuest(
	r chi.Router,
	guestHandler *adaptor.GuestHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Roster management is planner-only
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RolePlanner, log))

		r.Post("/api/events/{id}/guests", guestHandler.AddGuests)
		r.Get("/api/events/{id}/guests", guestHandler.ListGuests)
		r.Delete("/api/events/{id}/guests", guestHandler.RemoveGuest)
	})
}
