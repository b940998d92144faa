package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomblock/internal/data/entity"
	"roomblock/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrInvalidTransition is returned when a status update's from-status
// predicate matches no row: the booking is no longer in a state the
// update applies to, usually because a concurrent writer moved it
// first. Bookings are never deleted, so a zero row count always means
// the predicate failed.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// BookingFilter narrows List/Count queries for the dashboard surface.
type BookingFilter struct {
	EventID       *uuid.UUID
	ProposalID    *uuid.UUID
	GuestEmail    string
	Status        entity.BookingStatus
	PaymentStatus entity.PaymentStatus
	Limit         int
	Offset        int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error
	Approve(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID) error
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) error
	MarkCancelled(ctx context.Context, id uuid.UUID, reason string) error
	MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error
	SetGatewayOrder(ctx context.Context, id uuid.UUID, gatewayOrderID string) error

	FindUnpaidPlannerFunded(ctx context.Context, eventID uuid.UUID) ([]*entity.Booking, error)
	CountUnpaidPlannerFunded(ctx context.Context, eventID uuid.UUID) (int64, error)
	FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, code, event_id, proposal_id, category,
	guest_name, guest_email, guest_phone,
	rooms, nights, check_in, check_out,
	price_per_night, total_amount, currency,
	status, payment_status, is_paid_by_planner,
	rejection_reason, cancel_reason,
	approved_by, approved_at, hold_expires_at,
	gateway_order_id, gateway_payment_id,
	created_at, updated_at
`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.EventID, &b.ProposalID, &b.Category,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone,
		&b.Rooms, &b.Nights, &b.CheckIn, &b.CheckOut,
		&b.PricePerNight, &b.TotalAmount, &b.Currency,
		&b.Status, &b.PaymentStatus, &b.IsPaidByPlanner,
		&b.RejectionReason, &b.CancelReason,
		&b.ApprovedBy, &b.ApprovedAt, &b.HoldExpiresAt,
		&b.GatewayOrderID, &b.GatewayPayID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, code, event_id, proposal_id, category,
			guest_name, guest_email, guest_phone,
			rooms, nights, check_in, check_out,
			price_per_night, total_amount, currency,
			status, payment_status, is_paid_by_planner,
			rejection_reason, cancel_reason,
			approved_by, approved_at, hold_expires_at,
			gateway_order_id, gateway_payment_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.Code, booking.EventID, booking.ProposalID, booking.Category,
		booking.GuestName, booking.GuestEmail, booking.GuestPhone,
		booking.Rooms, booking.Nights, booking.CheckIn, booking.CheckOut,
		booking.PricePerNight, booking.TotalAmount, booking.Currency,
		booking.Status, booking.PaymentStatus, booking.IsPaidByPlanner,
		booking.RejectionReason, booking.CancelReason,
		booking.ApprovedBy, booking.ApprovedAt, booking.HoldExpiresAt,
		booking.GatewayOrderID, booking.GatewayPayID,
		booking.CreatedAt, booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("code", booking.Code),
			zap.String("event_id", booking.EventID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Code, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ANY($1) ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find bookings by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find bookings by IDs: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (f BookingFilter) where() (string, []any) {
	clause := " WHERE 1=1"
	args := []any{}
	idx := 1

	if f.EventID != nil {
		clause += fmt.Sprintf(" AND event_id = $%d", idx)
		args = append(args, *f.EventID)
		idx++
	}
	if f.ProposalID != nil {
		clause += fmt.Sprintf(" AND proposal_id = $%d", idx)
		args = append(args, *f.ProposalID)
		idx++
	}
	if f.GuestEmail != "" {
		clause += fmt.Sprintf(" AND LOWER(guest_email) = LOWER($%d)", idx)
		args = append(args, f.GuestEmail)
		idx++
	}
	if f.Status != "" {
		clause += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.PaymentStatus != "" {
		clause += fmt.Sprintf(" AND payment_status = $%d", idx)
		args = append(args, f.PaymentStatus)
		idx++
	}

	return clause, args
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	clause, args := filter.where()
	query := `SELECT ` + bookingColumns + ` FROM bookings` + clause + ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	clause, args := filter.where()
	query := `SELECT COUNT(*) FROM bookings` + clause

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), to, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is no longer %s: %w", id.String(), from, ErrInvalidTransition)
	}

	return nil
}

func (r *bookingRepository) Approve(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = 'confirmed', approved_by = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, approvedBy)
	if err != nil {
		r.log.Error("Failed to approve booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("approve booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is no longer pending: %w", id.String(), ErrInvalidTransition)
	}

	return nil
}

func (r *bookingRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE bookings
		SET status = 'rejected', rejection_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND payment_status = 'unpaid'
	`

	result, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		r.log.Error("Failed to reject booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("reject booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is not an unpaid pending booking: %w", id.String(), ErrInvalidTransition)
	}

	return nil
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancel_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed') AND payment_status = 'unpaid'
	`

	result, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is not an unpaid open booking: %w", id.String(), ErrInvalidTransition)
	}

	return nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
	query := `
		UPDATE bookings
		SET payment_status = 'paid', gateway_payment_id = $2, hold_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND payment_status = 'unpaid' AND status NOT IN ('rejected', 'cancelled')
	`

	result, err := r.db.Exec(ctx, query, id, gatewayPaymentID)
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("mark booking %s paid: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is not an unpaid open booking: %w", id.String(), ErrInvalidTransition)
	}

	return nil
}

func (r *bookingRepository) SetGatewayOrder(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	query := `UPDATE bookings SET gateway_order_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, gatewayOrderID)
	if err != nil {
		r.log.Error("Failed to set gateway order",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("set gateway order for booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) FindUnpaidPlannerFunded(ctx context.Context, eventID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1
		  AND is_paid_by_planner = TRUE
		  AND payment_status = 'unpaid'
		  AND status NOT IN ('rejected', 'cancelled')
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find unpaid planner-funded bookings",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find unpaid planner-funded bookings %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountUnpaidPlannerFunded(ctx context.Context, eventID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE event_id = $1
		  AND is_paid_by_planner = TRUE
		  AND payment_status = 'unpaid'
		  AND status NOT IN ('rejected', 'cancelled')
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		r.log.Error("Failed to count unpaid planner-funded bookings",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return 0, fmt.Errorf("count unpaid planner-funded bookings %s: %w", eventID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'pending'
		  AND is_paid_by_planner = FALSE
		  AND payment_status = 'unpaid'
		  AND hold_expires_at IS NOT NULL
		  AND hold_expires_at < $1
		ORDER BY hold_expires_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		r.log.Error("Failed to find expired holds", zap.Error(err))
		return nil, fmt.Errorf("find expired holds: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}
