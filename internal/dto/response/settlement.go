package response

import (
	"time"

	"roomblock/internal/data/entity"
)

type UnpaidBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalDue  float64           `json:"total_due"`
	Currency  string            `json:"currency"`
	Remaining int               `json:"remaining"`
}

type SettlementResponse struct {
	SettledBookings int                         `json:"settled_bookings"`
	AmountPaid      float64                     `json:"amount_paid"`
	Currency        string                      `json:"currency"`
	Remaining       int                         `json:"remaining"`
	PaymentStatus   entity.PlannerPaymentStatus `json:"planner_payment_status"`
}

type BillingSummaryResponse struct {
	EventID              string                      `json:"event_id"`
	PlannerPaymentStatus entity.PlannerPaymentStatus `json:"planner_payment_status"`
	TotalBookings        int                         `json:"total_bookings"`
	TotalGuestCost       float64                     `json:"total_guest_cost"`
	UnpaidBookings       int                         `json:"unpaid_bookings"`
	UnpaidAmount         float64                     `json:"unpaid_amount"`
	Payments             []PaymentRecordResponse     `json:"payments"`
}

type PaymentRecordResponse struct {
	ID          string             `json:"id"`
	BookingID   string             `json:"booking_id,omitempty"`
	Amount      float64            `json:"amount"`
	Currency    string             `json:"currency"`
	Kind        entity.PaymentKind `json:"kind"`
	ProcessedAt time.Time          `json:"processed_at"`
}

func PaymentToRecordResponse(p *entity.Payment) PaymentRecordResponse {
	resp := PaymentRecordResponse{
		ID:          p.ID.String(),
		Amount:      p.Amount,
		Currency:    p.Currency,
		Kind:        p.Kind,
		ProcessedAt: p.ProcessedAt,
	}
	if p.BookingID != nil {
		resp.BookingID = p.BookingID.String()
	}
	return resp
}
