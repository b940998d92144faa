package repository

import (
	"context"
	"errors"
	"fmt"

	"roomblock/internal/data/entity"
	"roomblock/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrInsufficientInventory is returned by Reserve when the requested
// count exceeds the rooms left for the (proposal, category) key.
var ErrInsufficientInventory = errors.New("not enough rooms available")

// InventoryRepository is the ledger of depleting room counters. The
// conditional UPDATEs are the only mutation path, so two concurrent
// reservations for the last room can never both succeed.
type InventoryRepository interface {
	CreateRooms(ctx context.Context, rooms []*entity.ProposalRoom) error
	FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entity.ProposalRoom, error)
	FindRoom(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory) (*entity.ProposalRoom, error)
	Reserve(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory, count int) (int, error)
	Release(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory, count int) (int, error)
}

type inventoryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInventoryRepository(db database.Querier, log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "inventory")),
	}
}

func (r *inventoryRepository) CreateRooms(ctx context.Context, rooms []*entity.ProposalRoom) error {
	query := `
		INSERT INTO proposal_rooms (proposal_id, category, price_per_night, total_rooms, available_rooms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (proposal_id, category) DO NOTHING
	`

	for _, room := range rooms {
		_, err := r.db.Exec(ctx, query,
			room.ProposalID,
			room.Category,
			room.PricePerNight,
			room.TotalRooms,
			room.AvailableRooms,
		)
		if err != nil {
			r.log.Error("Failed to create proposal room",
				zap.Error(err),
				zap.String("proposal_id", room.ProposalID.String()),
				zap.String("category", string(room.Category)),
			)
			return fmt.Errorf("create proposal room %s/%s: %w", room.ProposalID.String(), room.Category, err)
		}
	}

	return nil
}

func (r *inventoryRepository) FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entity.ProposalRoom, error) {
	query := `
		SELECT proposal_id, category, price_per_night, total_rooms, available_rooms
		FROM proposal_rooms
		WHERE proposal_id = $1
		ORDER BY category
	`

	rows, err := r.db.Query(ctx, query, proposalID)
	if err != nil {
		r.log.Error("Failed to find proposal rooms",
			zap.Error(err),
			zap.String("proposal_id", proposalID.String()),
		)
		return nil, fmt.Errorf("find proposal rooms %s: %w", proposalID.String(), err)
	}
	defer rows.Close()

	var result []*entity.ProposalRoom
	for rows.Next() {
		var room entity.ProposalRoom
		if err := rows.Scan(
			&room.ProposalID,
			&room.Category,
			&room.PricePerNight,
			&room.TotalRooms,
			&room.AvailableRooms,
		); err != nil {
			r.log.Error("Failed to scan proposal room row", zap.Error(err))
			return nil, fmt.Errorf("scan proposal room row: %w", err)
		}
		result = append(result, &room)
	}

	return result, nil
}

func (r *inventoryRepository) FindRoom(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory) (*entity.ProposalRoom, error) {
	query := `
		SELECT proposal_id, category, price_per_night, total_rooms, available_rooms
		FROM proposal_rooms
		WHERE proposal_id = $1 AND category = $2
	`

	var room entity.ProposalRoom
	err := r.db.QueryRow(ctx, query, proposalID, category).Scan(
		&room.ProposalID,
		&room.Category,
		&room.PricePerNight,
		&room.TotalRooms,
		&room.AvailableRooms,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find proposal room",
			zap.Error(err),
			zap.String("proposal_id", proposalID.String()),
			zap.String("category", string(category)),
		)
		return nil, fmt.Errorf("find proposal room %s/%s: %w", proposalID.String(), category, err)
	}

	return &room, nil
}

// Reserve decrements available_rooms only if enough rooms remain. The
// check and decrement are one statement, so the database serializes
// concurrent callers on the same key.
func (r *inventoryRepository) Reserve(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory, count int) (int, error) {
	if count < 1 {
		return 0, fmt.Errorf("reserve %s/%s: count must be positive, got %d", proposalID.String(), category, count)
	}

	query := `
		UPDATE proposal_rooms
		SET available_rooms = available_rooms - $3
		WHERE proposal_id = $1 AND category = $2 AND available_rooms >= $3
		RETURNING available_rooms
	`

	var remaining int
	err := r.db.QueryRow(ctx, query, proposalID, category, count).Scan(&remaining)

	if err == pgx.ErrNoRows {
		// Either the key does not exist or not enough rooms are left.
		room, findErr := r.FindRoom(ctx, proposalID, category)
		if findErr != nil {
			return 0, findErr
		}
		if room == nil {
			return 0, fmt.Errorf("proposal room %s/%s not found", proposalID.String(), category)
		}

		r.log.Warn("Reservation rejected, insufficient inventory",
			zap.String("proposal_id", proposalID.String()),
			zap.String("category", string(category)),
			zap.Int("requested", count),
			zap.Int("available", room.AvailableRooms),
		)
		return room.AvailableRooms, fmt.Errorf("reserve %d %s rooms (%d left): %w", count, category, room.AvailableRooms, ErrInsufficientInventory)
	}
	if err != nil {
		r.log.Error("Failed to reserve rooms",
			zap.Error(err),
			zap.String("proposal_id", proposalID.String()),
			zap.String("category", string(category)),
			zap.Int("count", count),
		)
		return 0, fmt.Errorf("reserve %d rooms %s/%s: %w", count, proposalID.String(), category, err)
	}

	return remaining, nil
}

// Release returns rooms to the pool. Releasing past total_rooms is a
// programming error in the caller, not a recoverable condition, so the
// update refuses rather than clamping.
func (r *inventoryRepository) Release(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory, count int) (int, error) {
	if count < 1 {
		return 0, fmt.Errorf("release %s/%s: count must be positive, got %d", proposalID.String(), category, count)
	}

	query := `
		UPDATE proposal_rooms
		SET available_rooms = available_rooms + $3
		WHERE proposal_id = $1 AND category = $2 AND available_rooms + $3 <= total_rooms
		RETURNING available_rooms
	`

	var remaining int
	err := r.db.QueryRow(ctx, query, proposalID, category, count).Scan(&remaining)

	if err == pgx.ErrNoRows {
		r.log.Error("Release would exceed total rooms",
			zap.String("proposal_id", proposalID.String()),
			zap.String("category", string(category)),
			zap.Int("count", count),
		)
		return 0, fmt.Errorf("release %d %s rooms for proposal %s: would exceed total offered", count, category, proposalID.String())
	}
	if err != nil {
		r.log.Error("Failed to release rooms",
			zap.Error(err),
			zap.String("proposal_id", proposalID.String()),
			zap.String("category", string(category)),
			zap.Int("count", count),
		)
		return 0, fmt.Errorf("release %d rooms %s/%s: %w", count, proposalID.String(), category, err)
	}

	return remaining, nil
}
