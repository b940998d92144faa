package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindBookingReceived  Kind = "booking-received"
	KindBookingConfirmed Kind = "booking-confirmed"
	KindBookingRejected  Kind = "booking-rejected"
	KindPlannerNewBooking Kind = "planner-new-booking"
	KindSettlementDone   Kind = "settlement-done"
)

// Notifier delivers a templated message to one recipient.
// Delivery failures never affect booking or payment state.
type Notifier interface {
	Send(ctx context.Context, recipient string, kind Kind, payload map[string]string) error
}

// FireAndForget sends in the background and only logs failures.
func FireAndForget(n Notifier, log *zap.Logger, recipient string, kind Kind, payload map[string]string) {
	if n == nil || recipient == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := n.Send(ctx, recipient, kind, payload); err != nil {
			log.Warn("Notification delivery failed",
				zap.Error(err),
				zap.String("recipient", recipient),
				zap.String("kind", string(kind)),
			)
		}
	}()
}
