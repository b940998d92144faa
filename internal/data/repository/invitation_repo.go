package repository

import (
	"context"
	"fmt"
	"strings"

	"roomblock/internal/data/entity"
	"roomblock/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type InvitationRepository interface {
	AddBatch(ctx context.Context, invitations []*entity.GuestInvitation) (int, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.GuestInvitation, error)
	FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.GuestInvitation, error)
	MarkAccessed(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, eventID uuid.UUID, email string) error
}

type invitationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInvitationRepository(db database.Querier, log *zap.Logger) InvitationRepository {
	return &invitationRepository{
		db:  db,
		log: log.With(zap.String("repository", "invitation")),
	}
}

// AddBatch inserts roster entries, silently skipping emails already
// invited to the event. Returns the number actually added.
func (r *invitationRepository) AddBatch(ctx context.Context, invitations []*entity.GuestInvitation) (int, error) {
	query := `
		INSERT INTO guest_invitations (id, event_id, name, email, phone, has_accessed, added_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, email) DO NOTHING
	`

	added := 0
	for _, inv := range invitations {
		result, err := r.db.Exec(ctx, query,
			inv.ID,
			inv.EventID,
			inv.Name,
			strings.ToLower(inv.Email),
			inv.Phone,
			inv.HasAccessed,
			inv.AddedAt,
			inv.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to add guest invitation",
				zap.Error(err),
				zap.String("event_id", inv.EventID.String()),
				zap.String("email", inv.Email),
			)
			return added, fmt.Errorf("add invitation %s: %w", inv.Email, err)
		}
		added += int(result.RowsAffected())
	}

	return added, nil
}

func (r *invitationRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.GuestInvitation, error) {
	query := `
		SELECT id, event_id, name, email, phone, has_accessed, added_at, created_at
		FROM guest_invitations
		WHERE event_id = $1
		ORDER BY added_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find invitations by event",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find invitations for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var invitations []*entity.GuestInvitation
	for rows.Next() {
		var inv entity.GuestInvitation
		if err := rows.Scan(
			&inv.ID, &inv.EventID, &inv.Name, &inv.Email, &inv.Phone,
			&inv.HasAccessed, &inv.AddedAt, &inv.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan invitation row", zap.Error(err))
			return nil, fmt.Errorf("scan invitation row: %w", err)
		}
		invitations = append(invitations, &inv)
	}

	return invitations, rows.Err()
}

func (r *invitationRepository) FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.GuestInvitation, error) {
	query := `
		SELECT id, event_id, name, email, phone, has_accessed, added_at, created_at
		FROM guest_invitations
		WHERE event_id = $1 AND email = LOWER($2)
	`

	var inv entity.GuestInvitation
	err := r.db.QueryRow(ctx, query, eventID, email).Scan(
		&inv.ID, &inv.EventID, &inv.Name, &inv.Email, &inv.Phone,
		&inv.HasAccessed, &inv.AddedAt, &inv.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find invitation by email",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find invitation %s for event %s: %w", email, eventID.String(), err)
	}

	return &inv, nil
}

func (r *invitationRepository) MarkAccessed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE guest_invitations SET has_accessed = TRUE WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark invitation accessed",
			zap.Error(err),
			zap.String("invitation_id", id.String()),
		)
		return fmt.Errorf("mark invitation %s accessed: %w", id.String(), err)
	}

	return nil
}

func (r *invitationRepository) Remove(ctx context.Context, eventID uuid.UUID, email string) error {
	query := `DELETE FROM guest_invitations WHERE event_id = $1 AND email = LOWER($2)`

	result, err := r.db.Exec(ctx, query, eventID, email)
	if err != nil {
		r.log.Error("Failed to remove invitation",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("email", email),
		)
		return fmt.Errorf("remove invitation %s from event %s: %w", email, eventID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s not found for event %s", email, eventID.String())
	}

	return nil
}
