package adaptor

import (
	"encoding/json"
	"net/http"

	"roomblock/internal/dto/request"
	"roomblock/internal/usecase"
	"roomblock/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SettlementHandler struct {
	service usecase.SettlementService
	log     *zap.Logger
}

func NewSettlementHandler(service usecase.SettlementService, log *zap.Logger) *SettlementHandler {
	return &SettlementHandler{
		service: service,
		log:     log.With(zap.String("handler", "settlement")),
	}
}

// UnpaidBookings handles GET /api/events/{id}/settlement/unpaid (planner)
func (h *SettlementHandler) UnpaidBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	result, err := h.service.UnpaidBookings(r.Context(), userID.String(), eventID)
	if err != nil {
		handleServiceError(h.log, w, err, "list unpaid bookings")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// CreateSettlementOrder handles POST /api/events/{id}/settlement/order (planner)
func (h *SettlementHandler) CreateSettlementOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.SettlementOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.CreateSettlementOrder(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create settlement order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// Settle handles POST /api/events/{id}/settlement (planner)
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Settle(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "settle bookings")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// BillingSummary handles GET /api/events/{id}/billing (planner)
func (h *SettlementHandler) BillingSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	summary, err := h.service.BillingSummary(r.Context(), userID.String(), eventID)
	if err != nil {
		handleServiceError(h.log, w, err, "billing summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}
