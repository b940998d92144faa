package repository

import (
	"context"
	"fmt"

	"roomblock/internal/data/entity"
	"roomblock/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindByPlannerID(ctx context.Context, plannerID uuid.UUID, limit, offset int) ([]*entity.Event, error)
	CountByPlannerID(ctx context.Context, plannerID uuid.UUID) (int64, error)
	SetPrivacy(ctx context.Context, id uuid.UUID, isPrivate bool) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error
	UpdatePlannerPaymentStatus(ctx context.Context, id uuid.UUID, status entity.PlannerPaymentStatus) error
	AddBookingStats(ctx context.Context, id uuid.UUID, bookingDelta int, guestCostDelta float64) error
}

type eventRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewEventRepository(db database.Querier, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

const eventColumns = `
	id, name, planner_id, is_private, booking_deadline, start_date, end_date,
	status, planner_payment_status, total_bookings, total_guest_cost,
	created_at, updated_at
`

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var e entity.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.PlannerID, &e.IsPrivate, &e.BookingDeadline,
		&e.StartDate, &e.EndDate, &e.Status, &e.PlannerPaymentStatus,
		&e.TotalBookings, &e.TotalGuestCost,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (
			id, name, planner_id, is_private, booking_deadline, start_date, end_date,
			status, planner_payment_status, total_bookings, total_guest_cost,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID, event.Name, event.PlannerID, event.IsPrivate, event.BookingDeadline,
		event.StartDate, event.EndDate, event.Status, event.PlannerPaymentStatus,
		event.TotalBookings, event.TotalGuestCost,
		event.CreatedAt, event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("name", event.Name),
			zap.String("planner_id", event.PlannerID.String()),
		)
		return fmt.Errorf("create event %s: %w", event.Name, err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return event, nil
}

func (r *eventRepository) FindByPlannerID(ctx context.Context, plannerID uuid.UUID, limit, offset int) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE planner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, plannerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find events by planner",
			zap.Error(err),
			zap.String("planner_id", plannerID.String()),
		)
		return nil, fmt.Errorf("find events by planner %s: %w", plannerID.String(), err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *eventRepository) CountByPlannerID(ctx context.Context, plannerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM events WHERE planner_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, plannerID).Scan(&count); err != nil {
		r.log.Error("Failed to count events by planner",
			zap.Error(err),
			zap.String("planner_id", plannerID.String()),
		)
		return 0, fmt.Errorf("count events by planner %s: %w", plannerID.String(), err)
	}

	return count, nil
}

func (r *eventRepository) SetPrivacy(ctx context.Context, id uuid.UUID, isPrivate bool) error {
	query := `UPDATE events SET is_private = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, isPrivate)
	if err != nil {
		r.log.Error("Failed to set event privacy",
			zap.Error(err),
			zap.String("event_id", id.String()),
			zap.Bool("is_private", isPrivate),
		)
		return fmt.Errorf("set event %s privacy: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id.String())
	}

	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update event status",
			zap.Error(err),
			zap.String("event_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update event %s status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id.String())
	}

	return nil
}

func (r *eventRepository) UpdatePlannerPaymentStatus(ctx context.Context, id uuid.UUID, status entity.PlannerPaymentStatus) error {
	query := `UPDATE events SET planner_payment_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update planner payment status",
			zap.Error(err),
			zap.String("event_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update event %s planner payment status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id.String())
	}

	return nil
}

func (r *eventRepository) AddBookingStats(ctx context.Context, id uuid.UUID, bookingDelta int, guestCostDelta float64) error {
	query := `
		UPDATE events
		SET total_bookings = total_bookings + $2,
		    total_guest_cost = total_guest_cost + $3,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, bookingDelta, guestCostDelta)
	if err != nil {
		r.log.Error("Failed to update event booking stats",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("update event %s booking stats: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id.String())
	}

	return nil
}
