package jobs

import (
	"context"
	"errors"
	"time"

	"roomblock/internal/data/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

// ExpirySweeper cancels guest-funded bookings whose payment hold ran
// out and returns their rooms to the pool. Planner-funded bookings
// never carry a hold and are never touched.
type ExpirySweeper struct {
	repo *repository.Repository
	cron *cron.Cron
	spec string
	log  *zap.Logger
}

func NewExpirySweeper(repo *repository.Repository, spec string, log *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		repo: repo,
		cron: cron.New(),
		spec: spec,
		log:  log.With(zap.String("job", "expiry-sweep")),
	}
}

func (s *ExpirySweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Expiry sweeper started", zap.String("spec", s.spec))
	return nil
}

func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Expiry sweeper stopped")
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := s.repo.Booking.FindExpiredHolds(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		s.log.Error("Failed to load expired holds", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	cancelled := 0
	for _, booking := range expired {
		b := booking
		err := s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
			if err := r.Booking.MarkCancelled(ctx, b.ID, "payment hold expired"); err != nil {
				return err
			}
			if _, err := r.Inventory.Release(ctx, b.ProposalID, b.Category, b.Rooms); err != nil {
				return err
			}
			return r.Event.AddBookingStats(ctx, b.EventID, -1, -b.TotalAmount)
		})
		if err != nil {
			// The guest may have paid between the scan and the cancel;
			// the conditional update refuses and the hold is moot.
			if errors.Is(err, repository.ErrInvalidTransition) {
				continue
			}
			s.log.Error("Failed to cancel expired hold",
				zap.Error(err),
				zap.String("booking_id", b.ID.String()),
			)
			continue
		}
		cancelled++
	}

	s.log.Info("Expired holds swept",
		zap.Int("found", len(expired)),
		zap.Int("cancelled", cancelled),
	)
}
