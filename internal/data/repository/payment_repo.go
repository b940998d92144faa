package repository

import (
	"context"
	"fmt"

	"roomblock/internal/data/entity"
	"roomblock/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Payment, error)
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (
			id, event_id, booking_id, payer_id, amount, currency, kind,
			gateway_order_id, gateway_payment_id, processed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID, payment.EventID, payment.BookingID, payment.PayerID,
		payment.Amount, payment.Currency, payment.Kind,
		payment.GatewayOrderID, payment.GatewayPaymentID, payment.ProcessedAt,
		payment.CreatedAt, payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment record",
			zap.Error(err),
			zap.String("event_id", payment.EventID.String()),
			zap.Float64("amount", payment.Amount),
		)
		return fmt.Errorf("create payment for event %s: %w", payment.EventID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT id, event_id, booking_id, payer_id, amount, currency, kind,
		       gateway_order_id, gateway_payment_id, processed_at, created_at, updated_at
		FROM payments
		WHERE event_id = $1
		ORDER BY processed_at DESC
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find payments by event",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find payments for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(
			&p.ID, &p.EventID, &p.BookingID, &p.PayerID, &p.Amount, &p.Currency, &p.Kind,
			&p.GatewayOrderID, &p.GatewayPaymentID, &p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}
