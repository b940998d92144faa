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

type ProposalHandler struct {
	service usecase.ProposalService
	access  usecase.AccessService
	log     *zap.Logger
}

func NewProposalHandler(service usecase.ProposalService, access usecase.AccessService, log *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		service: service,
		access:  access,
		log:     log.With(zap.String("handler", "proposal")),
	}
}

// SubmitProposal handles POST /api/events/{id}/proposals (hotel)
func (h *ProposalHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")

	var req request.SubmitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	proposal, err := h.service.SubmitProposal(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "submit proposal")
		return
	}

	utils.ResponseCreated(w, "success", proposal)
}

// GetAvailability handles GET /api/proposals/{id}/availability (public)
func (h *ProposalHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	proposalID := chi.URLParam(r, "id")

	proposal, err := h.service.GetAvailability(r.Context(), proposalID)
	if err != nil {
		handleServiceError(h.log, w, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", proposal)
}

// ListByEvent handles GET /api/events/{id}/proposals (planner)
func (h *ProposalHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	proposals, err := h.service.ListByEvent(r.Context(), eventID)
	if err != nil {
		handleServiceError(h.log, w, err, "list proposals")
		return
	}

	utils.ResponseSuccess(w, "success", proposals)
}

// CheckAccess handles POST /api/events/{id}/access-check (public microsite)
func (h *ProposalHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req request.CheckAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.access.CheckAccess(r.Context(), usecase.CallerFromContext(r.Context()), eventID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check access")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
