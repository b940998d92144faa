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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	CreateEvent(ctx context.Context, plannerID string, req *request.CreateEventRequest) (*response.EventResponse, error)
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
	ListEvents(ctx context.Context, plannerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error)
	SetPrivacy(ctx context.Context, plannerID, eventID string, req *request.SetPrivacyRequest) (*response.EventResponse, error)
	SelectProposals(ctx context.Context, plannerID, eventID string, req *request.SelectProposalsRequest) ([]response.ProposalResponse, error)
}

type eventService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEventService(repo *repository.Repository, log *zap.Logger) EventService {
	return &eventService{
		repo: repo,
		log:  log.With(zap.String("service", "event")),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, plannerID string, req *request.CreateEventRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create event validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	plannerUUID, err := utils.ParseUUID(plannerID)
	if err != nil {
		return nil, fmt.Errorf("invalid planner ID format %s: %w", plannerID, err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %s: %w", req.StartDate, err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %s: %w", req.EndDate, err)
	}
	deadline, err := time.Parse("2006-01-02", req.BookingDeadline)
	if err != nil {
		return nil, fmt.Errorf("invalid booking deadline %s: %w", req.BookingDeadline, err)
	}

	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", req.EndDate, req.StartDate)
	}
	if deadline.After(startDate) {
		return nil, fmt.Errorf("booking deadline %s is after event start %s", req.BookingDeadline, req.StartDate)
	}

	now := time.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:                 req.Name,
		PlannerID:            plannerUUID,
		IsPrivate:            req.IsPrivate,
		BookingDeadline:      deadline,
		StartDate:            startDate,
		EndDate:              endDate,
		Status:               entity.EventStatusActive,
		PlannerPaymentStatus: entity.PlannerPaymentNotRequired,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("name", event.Name),
		zap.Bool("is_private", event.IsPrivate),
	)

	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
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

	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) ListEvents(ctx context.Context, plannerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error) {
	plannerUUID, err := utils.ParseUUID(plannerID)
	if err != nil {
		return nil, fmt.Errorf("invalid planner ID format %s: %w", plannerID, err)
	}

	events, err := s.repo.Event.FindByPlannerID(ctx, plannerUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Event.CountByPlannerID(ctx, plannerUUID)
	if err != nil {
		return nil, err
	}

	items := make([]response.EventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, response.EventToResponse(event))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

// SetPrivacy flips the roster gate for future bookings only. Bookings
// already taken keep the funding mode they were created with.
func (s *eventService) SetPrivacy(ctx context.Context, plannerID, eventID string, req *request.SetPrivacyRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	if event.IsPrivate == *req.IsPrivate {
		resp := response.EventToResponse(event)
		return &resp, nil
	}

	if err := s.repo.Event.SetPrivacy(ctx, event.ID, *req.IsPrivate); err != nil {
		return nil, err
	}

	s.log.Info("Event privacy changed",
		zap.String("event_id", event.ID.String()),
		zap.Bool("is_private", *req.IsPrivate),
	)

	event.IsPrivate = *req.IsPrivate
	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) SelectProposals(ctx context.Context, plannerID, eventID string, req *request.SelectProposalsRequest) ([]response.ProposalResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	proposalIDs := make([]uuid.UUID, 0, len(req.ProposalIDs))
	for _, idStr := range req.ProposalIDs {
		id, err := utils.ParseUUID(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid proposal ID format %s: %w", idStr, err)
		}
		proposalIDs = append(proposalIDs, id)
	}

	proposals, err := s.repo.Proposal.FindByIDs(ctx, proposalIDs)
	if err != nil {
		return nil, err
	}
	if len(proposals) != len(proposalIDs) {
		return nil, fmt.Errorf("one or more proposals not found")
	}
	for _, p := range proposals {
		if p.EventID != event.ID {
			return nil, fmt.Errorf("proposal %s does not belong to event %s", p.ID.String(), eventID)
		}
	}

	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		for _, p := range proposals {
			if p.SelectedByPlanner {
				continue
			}
			if err := r.Proposal.MarkSelected(ctx, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Proposals selected",
		zap.String("event_id", event.ID.String()),
		zap.Int("count", len(proposals)),
	)

	result := make([]response.ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		rooms, err := s.repo.Inventory.FindByProposalID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Status = entity.ProposalStatusSelected
		p.SelectedByPlanner = true
		result = append(result, response.ProposalToResponse(p, rooms))
	}

	return result, nil
}

func (s *eventService) loadOwnedEvent(ctx context.Context, plannerID, eventID string) (*entity.Event, error) {
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
