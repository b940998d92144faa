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

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (public microsite, gated by
// the event's roster for private events)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id} (public with booking ID)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListBookings handles GET /api/bookings (planner/hotel dashboard)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		EventID:       query.Get("event_id"),
		ProposalID:    query.Get("proposal_id"),
		Status:        query.Get("status"),
		PaymentStatus: query.Get("payment_status"),
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ApproveBooking handles PUT /api/bookings/{id}/approve (planner/hotel)
func (h *BookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.ApproveBooking(r.Context(), userID.String(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "approve booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RejectBooking handles PUT /api/bookings/{id}/reject (planner/hotel)
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	var req request.RejectBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RejectBooking(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "reject booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CheckIn handles PUT /api/bookings/{id}/check-in (hotel)
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.CheckIn(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "check in")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CheckOut handles PUT /api/bookings/{id}/check-out (hotel)
func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.CheckOut(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "check out")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CreatePaymentOrder handles POST /api/bookings/{id}/payment-order
// (public microsite)
func (h *BookingHandler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	order, err := h.service.CreatePaymentOrder(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "create payment order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// ConfirmPayment handles POST /api/bookings/{id}/confirm-payment
// (public microsite)
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
