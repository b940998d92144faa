package usecase

import (
	"errors"

	"roomblock/internal/data/repository"
	"roomblock/pkg/payment"
)

// Sentinel errors the handlers translate into HTTP status codes.
var (
	// ErrAccessDenied covers both a guest who is not on a private
	// event's roster and a planner touching an event they do not own.
	ErrAccessDenied = errors.New("access denied")

	// ErrBookingClosed means the event is not accepting bookings,
	// either past its deadline or no longer active.
	ErrBookingClosed = errors.New("event is not accepting bookings")

	// ErrPaymentRequired means the operation needs a completed payment
	// first.
	ErrPaymentRequired = errors.New("payment required")

	// ErrAmountMismatch means a settlement amount does not exactly
	// cover the selected bookings.
	ErrAmountMismatch = errors.New("amount does not match selected bookings")
)

// Re-exported so callers can match without importing the lower layers.
// ErrInvalidTransition covers both a lifecycle move the transition
// table forbids and a conditional status update losing to a concurrent
// writer.
var (
	ErrInvalidTransition         = repository.ErrInvalidTransition
	ErrInsufficientInventory     = repository.ErrInsufficientInventory
	ErrPaymentVerificationFailed = payment.ErrVerificationFailed
)
