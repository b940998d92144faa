package wire

import (
	"roomblock/internal/adaptor"
	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Planner dashboard routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RolePlanner, log))

		r.Post("/api/events", eventHandler.CreateEvent)
		r.Get("/api/events", eventHandler.ListEvents)
		r.Put("/api/events/{id}/privacy", eventHandler.SetPrivacy)
		r.Post("/api/events/{id}/proposals/select", eventHandler.SelectProposals)
	})

	// Public microsite route
	r.Get("/api/events/{id}", eventHandler.GetEvent)
}
