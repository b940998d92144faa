package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusCheckedIn  BookingStatus = "checked-in"
	BookingStatusCheckedOut BookingStatus = "checked-out"
)

// bookingTransitions is the closed transition table of the booking
// lifecycle. Anything not listed is an invalid transition.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func (from BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Booking struct {
	Base
	Code            string        `db:"code"`
	EventID         uuid.UUID     `db:"event_id"`
	ProposalID      uuid.UUID     `db:"proposal_id"`
	Category        RoomCategory  `db:"category"`
	GuestName       string        `db:"guest_name"`
	GuestEmail      string        `db:"guest_email"`
	GuestPhone      string        `db:"guest_phone"`
	Rooms           int           `db:"rooms"`
	Nights          int           `db:"nights"`
	CheckIn         time.Time     `db:"check_in"`
	CheckOut        time.Time     `db:"check_out"`
	PricePerNight   float64       `db:"price_per_night"`
	TotalAmount     float64       `db:"total_amount"`
	Currency        string        `db:"currency"`
	Status          BookingStatus `db:"status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	IsPaidByPlanner bool          `db:"is_paid_by_planner"`
	RejectionReason string        `db:"rejection_reason"`
	CancelReason    string        `db:"cancel_reason"`
	ApprovedBy      *uuid.UUID    `db:"approved_by"`
	ApprovedAt      *time.Time    `db:"approved_at"`
	HoldExpiresAt   *time.Time    `db:"hold_expires_at"`
	GatewayOrderID  string        `db:"gateway_order_id"`
	GatewayPayID    string        `db:"gateway_payment_id"`
}
