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

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// CreateEvent handles POST /api/events (planner)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// GetEvent handles GET /api/events/{id} (public)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		handleServiceError(h.log, w, err, "get event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// ListEvents handles GET /api/events (planner)
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	events, err := h.service.ListEvents(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// SetPrivacy handles PUT /api/events/{id}/privacy (planner)
func (h *EventHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.SetPrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.SetPrivacy(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "set event privacy")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// SelectProposals handles POST /api/events/{id}/proposals/select (planner)
func (h *EventHandler) SelectProposals(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.SelectProposalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	proposals, err := h.service.SelectProposals(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "select proposals")
		return
	}

	utils.ResponseSuccess(w, "success", proposals)
}
