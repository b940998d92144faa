package payment

import (
	"context"
	"errors"
)

// ErrVerificationFailed is returned when a payment proof does not
// carry a valid signature for the order/payment pair.
var ErrVerificationFailed = errors.New("payment signature verification failed")

// Order is the gateway-side order a client pays against.
type Order struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// Proof is the signed success token the gateway hands back to the
// client after a payment attempt.
type Proof struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Gateway is the external payment authority. Any provider satisfying
// this contract is interchangeable.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*Order, error)
	Verify(proof Proof) error
}
