package repository

import (
	"context"
	"fmt"

	"roomblock/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User       UserRepository
	Session    SessionRepository
	Event      EventRepository
	Proposal   ProposalRepository
	Inventory  InventoryRepository
	Booking    BookingRepository
	Invitation InvitationRepository
	Payment    PaymentRepository
	Tx         TxManager
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		Event:      NewEventRepository(db, log),
		Proposal:   NewProposalRepository(db, log),
		Inventory:  NewInventoryRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		Invitation: NewInvitationRepository(db, log),
		Payment:    NewPaymentRepository(db, log),
		Tx:         NewTxManager(db, log),
	}
}

// TxManager runs a function against a transaction-bound repository
// set. Either every write inside fn commits or none do.
type TxManager interface {
	Atomic(ctx context.Context, fn func(r *Repository) error) error
}

type pgTxManager struct {
	db  database.Querier
	log *zap.Logger
}

func NewTxManager(db database.Querier, log *zap.Logger) TxManager {
	return &pgTxManager{db: db, log: log}
}

func (m *pgTxManager) Atomic(ctx context.Context, fn func(r *Repository) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := NewRepository(tx, m.log)

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error("Transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
