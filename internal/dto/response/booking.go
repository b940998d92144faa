package response

import (
	"time"

	"roomblock/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	Code            string               `json:"code"`
	EventID         string               `json:"event_id"`
	ProposalID      string               `json:"proposal_id"`
	Category        entity.RoomCategory  `json:"category"`
	GuestName       string               `json:"guest_name"`
	GuestEmail      string               `json:"guest_email"`
	Rooms           int                  `json:"rooms"`
	Nights          int                  `json:"nights"`
	CheckIn         string               `json:"check_in"`
	CheckOut        string               `json:"check_out"`
	PricePerNight   float64              `json:"price_per_night"`
	TotalAmount     float64              `json:"total_amount"`
	Currency        string               `json:"currency"`
	Status          entity.BookingStatus `json:"status"`
	PaymentStatus   entity.PaymentStatus `json:"payment_status"`
	IsPaidByPlanner bool                 `json:"is_paid_by_planner"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	HoldExpiresAt   *time.Time           `json:"hold_expires_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type PaymentOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		Code:            b.Code,
		EventID:         b.EventID.String(),
		ProposalID:      b.ProposalID.String(),
		Category:        b.Category,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		Rooms:           b.Rooms,
		Nights:          b.Nights,
		CheckIn:         b.CheckIn.Format("2006-01-02"),
		CheckOut:        b.CheckOut.Format("2006-01-02"),
		PricePerNight:   b.PricePerNight,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		IsPaidByPlanner: b.IsPaidByPlanner,
		RejectionReason: b.RejectionReason,
		CancelReason:    b.CancelReason,
		HoldExpiresAt:   b.HoldExpiresAt,
		CreatedAt:       b.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
