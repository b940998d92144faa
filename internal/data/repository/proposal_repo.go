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

type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.HotelProposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.HotelProposal, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.HotelProposal, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.HotelProposal, error)
	FindSelectedByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.HotelProposal, error)
	MarkSelected(ctx context.Context, id uuid.UUID) error
}

type proposalRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewProposalRepository(db database.Querier, log *zap.Logger) ProposalRepository {
	return &proposalRepository{
		db:  db,
		log: log.With(zap.String("repository", "proposal")),
	}
}

const proposalColumns = `
	id, event_id, hotel_id, hotel_name, total_rooms_offered,
	status, selected_by_planner, selection_date, created_at, updated_at
`

func scanProposal(row pgx.Row) (*entity.HotelProposal, error) {
	var p entity.HotelProposal
	err := row.Scan(
		&p.ID, &p.EventID, &p.HotelID, &p.HotelName, &p.TotalRoomsOffered,
		&p.Status, &p.SelectedByPlanner, &p.SelectionDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) Create(ctx context.Context, proposal *entity.HotelProposal) error {
	query := `
		INSERT INTO hotel_proposals (
			id, event_id, hotel_id, hotel_name, total_rooms_offered,
			status, selected_by_planner, selection_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		proposal.ID, proposal.EventID, proposal.HotelID, proposal.HotelName,
		proposal.TotalRoomsOffered, proposal.Status, proposal.SelectedByPlanner,
		proposal.SelectionDate, proposal.CreatedAt, proposal.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create proposal",
			zap.Error(err),
			zap.String("event_id", proposal.EventID.String()),
			zap.String("hotel_name", proposal.HotelName),
		)
		return fmt.Errorf("create proposal for event %s: %w", proposal.EventID.String(), err)
	}

	return nil
}

func (r *proposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.HotelProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM hotel_proposals WHERE id = $1`

	proposal, err := scanProposal(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find proposal by ID",
			zap.Error(err),
			zap.String("proposal_id", id.String()),
		)
		return nil, fmt.Errorf("find proposal by ID %s: %w", id.String(), err)
	}

	return proposal, nil
}

func (r *proposalRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.HotelProposal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + proposalColumns + ` FROM hotel_proposals WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find proposals by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find proposals by IDs: %w", err)
	}
	defer rows.Close()

	return collectProposals(rows)
}

func (r *proposalRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.HotelProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM hotel_proposals WHERE event_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find proposals by event",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find proposals by event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return collectProposals(rows)
}

func (r *proposalRepository) FindSelectedByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.HotelProposal, error) {
	query := `SELECT ` + proposalColumns + `
		FROM hotel_proposals
		WHERE event_id = $1 AND selected_by_planner = TRUE
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find selected proposals",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find selected proposals for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return collectProposals(rows)
}

func collectProposals(rows pgx.Rows) ([]*entity.HotelProposal, error) {
	var proposals []*entity.HotelProposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal row: %w", err)
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}

func (r *proposalRepository) MarkSelected(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE hotel_proposals
		SET status = 'selected', selected_by_planner = TRUE, selection_date = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark proposal selected",
			zap.Error(err),
			zap.String("proposal_id", id.String()),
		)
		return fmt.Errorf("mark proposal %s selected: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("proposal %s not found", id.String())
	}

	return nil
}
