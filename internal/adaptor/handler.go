package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"roomblock/internal/usecase"
	"roomblock/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Event      *EventHandler
	Guest      *GuestHandler
	Proposal   *ProposalHandler
	Booking    *BookingHandler
	Settlement *SettlementHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Event:      NewEventHandler(service.Event, log),
		Guest:      NewGuestHandler(service.Guest, log),
		Proposal:   NewProposalHandler(service.Proposal, service.Access, log),
		Booking:    NewBookingHandler(service.Booking, log),
		Settlement: NewSettlementHandler(service.Settlement, log),
	}
}

// handleServiceError maps service errors onto HTTP responses. Sentinel
// errors carry the interesting outcomes; message matching covers the
// rest.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrAccessDenied):
		log.Warn(operation+" failed - access denied", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrPaymentRequired):
		log.Warn(operation+" failed - payment required", zap.Error(err))
		utils.ResponsePaymentRequired(w, errMsg)

	case errors.Is(err, usecase.ErrInsufficientInventory),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrBookingClosed):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrAmountMismatch),
		errors.Is(err, usecase.ErrPaymentVerificationFailed):
		log.Warn(operation+" failed - payment rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "cannot"),
		strings.Contains(errMsg, "already"):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
