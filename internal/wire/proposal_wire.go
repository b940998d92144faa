package wire

import (
	"roomblock/internal/adaptor"
	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProposal(
	r chi.Router,
	proposalHandler *adaptor.ProposalHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Hotels submit room blocks
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RoleHotel, log))

		r.Post("/api/events/{id}/proposals", proposalHandler.SubmitProposal)
	})

	// Planners review submitted proposals
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RolePlanner, log))

		r.Get("/api/events/{id}/proposals", proposalHandler.ListByEvent)
	})

	// Public microsite routes; the access check honors a bearer token
	// when one is present so planners and admins pass their own gate.
	r.Get("/api/proposals/{id}/availability", proposalHandler.GetAvailability)
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthSession(repo.Session, repo.User, log))

		r.Post("/api/events/{id}/access-check", proposalHandler.CheckAccess)
	})
}
