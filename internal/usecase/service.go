package usecase

import (
	"roomblock/internal/data/repository"
	"roomblock/pkg/notify"
	"roomblock/pkg/payment"
	"roomblock/pkg/utils"

	"go.uber.org/zap"
)

// Service groups every business-logic service behind one handle.
type Service struct {
	Access     AccessService
	Event      EventService
	Guest      GuestService
	Proposal   ProposalService
	Booking    BookingService
	Settlement SettlementService
}

func NewService(
	repo *repository.Repository,
	gateway payment.Gateway,
	notifier notify.Notifier,
	cfg *utils.Config,
	log *zap.Logger,
) *Service {
	access := NewAccessService(repo, log)

	return &Service{
		Access:     access,
		Event:      NewEventService(repo, log),
		Guest:      NewGuestService(repo, log),
		Proposal:   NewProposalService(repo, log),
		Booking:    NewBookingService(repo, access, gateway, notifier, cfg, log),
		Settlement: NewSettlementService(repo, gateway, notifier, cfg, log),
	}
}
