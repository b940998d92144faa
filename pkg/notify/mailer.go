package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"roomblock/pkg/utils"

	"go.uber.org/zap"
)

// smtpNotifier renders a small plain-text template per kind and sends
// it over SMTP.
type smtpNotifier struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewSMTPNotifier(config utils.EmailConfig, log *zap.Logger) Notifier {
	return &smtpNotifier{
		config: config,
		log:    log.With(zap.String("notifier", "smtp")),
	}
}

func (n *smtpNotifier) Send(ctx context.Context, recipient string, kind Kind, payload map[string]string) error {
	subject, body := renderTemplate(kind, payload)

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", n.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	auth := smtp.PlainAuth("", n.config.User, n.config.Password, n.config.Host)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, n.config.From, []string{recipient}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", recipient, err)
		}
		n.log.Info("Notification sent",
			zap.String("recipient", recipient),
			zap.String("kind", string(kind)),
		)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", recipient, ctx.Err())
	}
}

func renderTemplate(kind Kind, payload map[string]string) (subject, body string) {
	event := payload["event"]
	code := payload["booking_code"]

	switch kind {
	case KindBookingReceived:
		subject = fmt.Sprintf("Booking received for %s", event)
		body = fmt.Sprintf("Hi %s,\n\nYour booking %s for %s was received and is awaiting approval.\n", payload["name"], code, event)
	case KindBookingConfirmed:
		subject = fmt.Sprintf("Booking confirmed for %s", event)
		body = fmt.Sprintf("Hi %s,\n\nYour booking %s for %s is confirmed.\n", payload["name"], code, event)
	case KindBookingRejected:
		subject = fmt.Sprintf("Booking update for %s", event)
		body = fmt.Sprintf("Hi %s,\n\nYour booking %s for %s was declined: %s\n", payload["name"], code, event, payload["reason"])
	case KindPlannerNewBooking:
		subject = fmt.Sprintf("New booking on %s", event)
		body = fmt.Sprintf("A new booking %s was placed on %s by %s.\n", code, event, payload["guest_email"])
	case KindSettlementDone:
		subject = fmt.Sprintf("Settlement recorded for %s", event)
		body = fmt.Sprintf("A payment of %s %s was applied to %s bookings on %s.\n", payload["currency"], payload["amount"], payload["count"], event)
	default:
		subject = "Notification"
		body = fmt.Sprintf("Update regarding %s.\n", event)
	}

	return subject, body
}
