package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentKind string

const (
	PaymentKindGuest             PaymentKind = "guest"
	PaymentKindPlannerSettlement PaymentKind = "planner-settlement"
)

// Payment is the audit record of one verified gateway payment, either
// a single guest-funded booking or a planner settlement batch.
type Payment struct {
	Base
	EventID          uuid.UUID   `db:"event_id"`
	BookingID        *uuid.UUID  `db:"booking_id"`
	PayerID          uuid.UUID   `db:"payer_id"`
	Amount           float64     `db:"amount"`
	Currency         string      `db:"currency"`
	Kind             PaymentKind `db:"kind"`
	GatewayOrderID   string      `db:"gateway_order_id"`
	GatewayPaymentID string      `db:"gateway_payment_id"`
	ProcessedAt      time.Time   `db:"processed_at"`
}
