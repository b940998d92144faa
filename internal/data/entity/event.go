package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type PlannerPaymentStatus string

const (
	PlannerPaymentNotRequired   PlannerPaymentStatus = "not-required"
	PlannerPaymentPending       PlannerPaymentStatus = "pending"
	PlannerPaymentPartiallyPaid PlannerPaymentStatus = "partially-paid"
	PlannerPaymentPaid          PlannerPaymentStatus = "paid"
)

type Event struct {
	Base
	Name                 string               `db:"name"`
	PlannerID            uuid.UUID            `db:"planner_id"`
	IsPrivate            bool                 `db:"is_private"`
	BookingDeadline      time.Time            `db:"booking_deadline"`
	StartDate            time.Time            `db:"start_date"`
	EndDate              time.Time            `db:"end_date"`
	Status               EventStatus          `db:"status"`
	PlannerPaymentStatus PlannerPaymentStatus `db:"planner_payment_status"`
	TotalBookings        int                  `db:"total_bookings"`
	TotalGuestCost       float64              `db:"total_guest_cost"`
}
