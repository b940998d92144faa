package usecase

import (
	"context"
	"fmt"
	"time"

	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/internal/dto/request"
	"roomblock/internal/dto/response"
	"roomblock/pkg/utils"

	"go.uber.org/zap"
)

type GuestService interface {
	AddGuests(ctx context.Context, plannerID, eventID string, req *request.AddGuestsRequest) (*response.AddGuestsResponse, error)
	RemoveGuest(ctx context.Context, plannerID, eventID string, req *request.RemoveGuestRequest) error
	ListGuests(ctx context.Context, plannerID, eventID string) ([]response.GuestResponse, error)
}

type guestService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewGuestService(repo *repository.Repository, log *zap.Logger) GuestService {
	return &guestService{
		repo: repo,
		log:  log.With(zap.String("service", "guest")),
	}
}

func (s *guestService) AddGuests(ctx context.Context, plannerID, eventID string, req *request.AddGuestsRequest) (*response.AddGuestsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add guests validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	// Dedupe within the request itself, the database handles
	// duplicates against the existing roster.
	seen := make(map[string]bool, len(req.Guests))
	now := time.Now()
	invitations := make([]*entity.GuestInvitation, 0, len(req.Guests))
	for _, guest := range req.Guests {
		email := utils.NormalizeEmail(guest.Email)
		if seen[email] {
			continue
		}
		seen[email] = true

		invitations = append(invitations, &entity.GuestInvitation{
			BaseSimple: entity.BaseSimple{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
			},
			EventID: event.ID,
			Name:    guest.Name,
			Email:   email,
			Phone:   guest.Phone,
			AddedAt: now,
		})
	}

	added, err := s.repo.Invitation.AddBatch(ctx, invitations)
	if err != nil {
		return nil, err
	}

	s.log.Info("Guests added to roster",
		zap.String("event_id", event.ID.String()),
		zap.Int("requested", len(req.Guests)),
		zap.Int("added", added),
	)

	return &response.AddGuestsResponse{
		Added:   added,
		Skipped: len(req.Guests) - added,
	}, nil
}

func (s *guestService) RemoveGuest(ctx context.Context, plannerID, eventID string, req *request.RemoveGuestRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return err
	}

	if err := s.repo.Invitation.Remove(ctx, event.ID, utils.NormalizeEmail(req.Email)); err != nil {
		return err
	}

	s.log.Info("Guest removed from roster",
		zap.String("event_id", event.ID.String()),
		zap.String("email", req.Email),
	)

	return nil
}

func (s *guestService) ListGuests(ctx context.Context, plannerID, eventID string) ([]response.GuestResponse, error) {
	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	invitations, err := s.repo.Invitation.FindByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	return response.GuestsToResponse(invitations), nil
}

func (s *guestService) loadOwnedEvent(ctx context.Context, plannerID, eventID string) (*entity.Event, error) {
	plannerUUID, err := utils.ParseUUID(plannerID)
	if err != nil {
		return nil, fmt.Errorf("invalid planner ID format %s: %w", plannerID, err)
	}
	eventUUID, err := utils.ParseUUID(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	if event.PlannerID != plannerUUID {
		return nil, fmt.Errorf("event %s is not managed by planner %s: %w", eventID, plannerID, ErrAccessDenied)
	}

	return event, nil
}
