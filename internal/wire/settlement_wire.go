package wire

import (
	"roomblock/internal/adaptor"
	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSettlement(
	r chi.Router,
	settlementHandler *adaptor.SettlementHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Settlement is planner-only
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.RequireRole(entity.RolePlanner, log))

		r.Get("/api/events/{id}/settlement/unpaid", settlementHandler.UnpaidBookings)
		r.Post("/api/events/{id}/settlement/order", settlementHandler.CreateSettlementOrder)
		r.Post("/api/events/{id}/settlement", settlementHandler.Settle)
		r.Get("/api/events/{id}/billing", settlementHandler.BillingSummary)
	})
}
