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

type ProposalService interface {
	SubmitProposal(ctx context.Context, hotelID, eventID string, req *request.SubmitProposalRequest) (*response.ProposalResponse, error)
	GetAvailability(ctx context.Context, proposalID string) (*response.ProposalResponse, error)
	ListByEvent(ctx context.Context, eventID string) ([]response.ProposalResponse, error)
}

type proposalService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProposalService(repo *repository.Repository, log *zap.Logger) ProposalService {
	return &proposalService{
		repo: repo,
		log:  log.With(zap.String("service", "proposal")),
	}
}

func (s *proposalService) SubmitProposal(ctx context.Context, hotelID, eventID string, req *request.SubmitProposalRequest) (*response.ProposalResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit proposal validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	hotelUUID, err := utils.ParseUUID(hotelID)
	if err != nil {
		return nil, fmt.Errorf("invalid hotel ID format %s: %w", hotelID, err)
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
	if event.Status != entity.EventStatusActive {
		return nil, fmt.Errorf("event %s is not accepting proposals", eventID)
	}

	seen := make(map[entity.RoomCategory]bool, len(req.Rooms))
	totalRooms := 0
	for _, room := range req.Rooms {
		category := entity.RoomCategory(room.Category)
		if seen[category] {
			return nil, fmt.Errorf("duplicate room category %s in proposal", room.Category)
		}
		seen[category] = true
		totalRooms += room.TotalRooms
	}

	now := time.Now()
	proposal := &entity.HotelProposal{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID:           eventUUID,
		HotelID:           hotelUUID,
		HotelName:         req.HotelName,
		TotalRoomsOffered: totalRooms,
		Status:            entity.ProposalStatusSubmitted,
	}

	rooms := make([]*entity.ProposalRoom, 0, len(req.Rooms))
	for _, room := range req.Rooms {
		rooms = append(rooms, &entity.ProposalRoom{
			ProposalID:     proposal.ID,
			Category:       entity.RoomCategory(room.Category),
			PricePerNight:  room.PricePerNight,
			TotalRooms:     room.TotalRooms,
			AvailableRooms: room.TotalRooms,
		})
	}

	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		if err := r.Proposal.Create(ctx, proposal); err != nil {
			return err
		}
		return r.Inventory.CreateRooms(ctx, rooms)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Proposal submitted",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("event_id", eventID),
		zap.String("hotel_name", req.HotelName),
		zap.Int("total_rooms", totalRooms),
	)

	resp := response.ProposalToResponse(proposal, rooms)
	return &resp, nil
}

func (s *proposalService) GetAvailability(ctx context.Context, proposalID string) (*response.ProposalResponse, error) {
	proposalUUID, err := utils.ParseUUID(proposalID)
	if err != nil {
		return nil, fmt.Errorf("invalid proposal ID format %s: %w", proposalID, err)
	}

	proposal, err := s.repo.Proposal.FindByID(ctx, proposalUUID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, fmt.Errorf("proposal %s not found", proposalID)
	}

	rooms, err := s.repo.Inventory.FindByProposalID(ctx, proposalUUID)
	if err != nil {
		return nil, err
	}

	resp := response.ProposalToResponse(proposal, rooms)
	return &resp, nil
}

func (s *proposalService) ListByEvent(ctx context.Context, eventID string) ([]response.ProposalResponse, error) {
	eventUUID, err := utils.ParseUUID(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	proposals, err := s.repo.Proposal.FindByEventID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}

	result := make([]response.ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		rooms, err := s.repo.Inventory.FindByProposalID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, response.ProposalToResponse(p, rooms))
	}

	return result, nil
}
