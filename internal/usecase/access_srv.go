package usecase

import (
	"context"
	"errors"
	"fmt"

	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/internal/dto/request"
	"roomblock/internal/dto/response"
	"roomblock/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Caller identifies the authenticated user behind a request, when the
// session middleware resolved one. The zero value is an anonymous
// microsite visitor.
type Caller struct {
	ID   uuid.UUID
	Role entity.UserRole
}

// CallerFromContext reads the identity the auth middleware stored.
func CallerFromContext(ctx context.Context) Caller {
	var caller Caller
	if id, ok := utils.GetUserIDFromContext(ctx); ok {
		caller.ID = id
	}
	if role, ok := utils.GetRoleFromContext(ctx); ok {
		caller.Role = entity.UserRole(role)
	}
	return caller
}

// AccessService is the gate in front of the booking microsite. Public
// events let anyone through; private events admit emails on the
// event's guest roster, the event's own planner, and admins.
type AccessService interface {
	CheckAccess(ctx context.Context, caller Caller, eventID string, req *request.CheckAccessRequest) (*response.AccessCheckResponse, error)

	// EnsureCanBook applies the same gate against a loaded event and
	// records first access for roster guests. Returns ErrAccessDenied
	// when the caller is not admitted.
	EnsureCanBook(ctx context.Context, caller Caller, event *entity.Event, email string) error
}

type accessService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAccessService(repo *repository.Repository, log *zap.Logger) AccessService {
	return &accessService{
		repo: repo,
		log:  log.With(zap.String("service", "access")),
	}
}

func (s *accessService) CheckAccess(ctx context.Context, caller Caller, eventID string, req *request.CheckAccessRequest) (*response.AccessCheckResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
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

	if err := s.EnsureCanBook(ctx, caller, event, req.Email); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			return &response.AccessCheckResponse{
				Allowed: false,
				Reason:  "email is not on the guest list for this event",
			}, nil
		}
		return nil, err
	}

	return &response.AccessCheckResponse{Allowed: true}, nil
}

func (s *accessService) EnsureCanBook(ctx context.Context, caller Caller, event *entity.Event, email string) error {
	if !event.IsPrivate {
		return nil
	}

	// The event's own planner and admins are never gated by the roster.
	if caller.Role == entity.RoleAdmin || (caller.ID != uuid.Nil && caller.ID == event.PlannerID) {
		return nil
	}

	invitation, err := s.repo.Invitation.FindByEmail(ctx, event.ID, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if invitation == nil {
		s.log.Info("Roster gate rejected email",
			zap.String("event_id", event.ID.String()),
			zap.String("email", email),
		)
		return fmt.Errorf("email %s is not invited to event %s: %w", email, event.ID.String(), ErrAccessDenied)
	}

	if !invitation.HasAccessed {
		if err := s.repo.Invitation.MarkAccessed(ctx, invitation.ID); err != nil {
			// First-access tracking is informational, do not block.
			s.log.Warn("Failed to record first access", zap.Error(err))
		}
	}

	return nil
}
