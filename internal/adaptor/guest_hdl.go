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

type GuestHandler struct {
	service usecase.GuestService
	log     *zap.Logger
}

func NewGuestHandler(service usecase.GuestService, log *zap.Logger) *GuestHandler {
	return &GuestHandler{
		service: service,
		log:     log.With(zap.String("handler", "guest")),
	}
}

// AddGuests handles POST /api/events/{id}/guests (planner)
func (h *GuestHandler) AddGuests(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.AddGuestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.AddGuests(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add guests")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// RemoveGuest handles DELETE /api/events/{id}/guests (planner)
func (h *GuestHandler) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.RemoveGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.RemoveGuest(r.Context(), userID.String(), eventID, &req); err != nil {
		handleServiceError(h.log, w, err, "remove guest")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ListGuests handles GET /api/events/{id}/guests (planner)
func (h *GuestHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	guests, err := h.service.ListGuests(r.Context(), userID.String(), eventID)
	if err != nil {
		handleServiceError(h.log, w, err, "list guests")
		return
	}

	utils.ResponseSuccess(w, "success", guests)
}
