package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/internal/dto/request"
	"roomblock/internal/dto/response"
	"roomblock/pkg/notify"
	"roomblock/pkg/payment"
	"roomblock/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Guest-facing microsite endpoints.
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CreatePaymentOrder(ctx context.Context, bookingID string) (*response.PaymentOrderResponse, error)
	ConfirmPayment(ctx context.Context, bookingID string, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error)

	// Planner / hotel dashboard endpoints.
	ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ApproveBooking(ctx context.Context, approverID, bookingID string) (*response.BookingResponse, error)
	RejectBooking(ctx context.Context, bookingID string, req *request.RejectBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	CheckIn(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CheckOut(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	access   AccessService
	gateway  payment.Gateway
	notifier notify.Notifier
	cfg      *utils.Config
	log      *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	access AccessService,
	gateway payment.Gateway,
	notifier notify.Notifier,
	cfg *utils.Config,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		access:   access,
		gateway:  gateway,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With(zap.String("service", "booking")),
	}
}

// CreateBooking reserves inventory and records the booking in one
// transaction. The booking snapshots the event's funding mode at this
// moment; later privacy flips do not touch it.
func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	eventID, err := utils.ParseUUID(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}
	proposalID, err := utils.ParseUUID(req.ProposalID)
	if err != nil {
		return nil, fmt.Errorf("invalid proposal ID format %s: %w", req.ProposalID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", req.EventID)
	}
	if event.Status != entity.EventStatusActive {
		return nil, fmt.Errorf("event %s has status %s: %w", req.EventID, event.Status, ErrBookingClosed)
	}
	// The deadline is stored as a date; bookings are accepted through
	// the end of that day.
	if time.Now().After(event.BookingDeadline.Add(24 * time.Hour)) {
		return nil, fmt.Errorf("booking deadline for event %s has passed: %w", req.EventID, ErrBookingClosed)
	}

	if err := s.access.EnsureCanBook(ctx, CallerFromContext(ctx), event, req.GuestEmail); err != nil {
		return nil, err
	}

	proposal, err := s.repo.Proposal.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, fmt.Errorf("proposal %s not found", req.ProposalID)
	}
	if proposal.EventID != eventID {
		return nil, fmt.Errorf("proposal %s does not belong to event %s", req.ProposalID, req.EventID)
	}
	if !proposal.SelectedByPlanner {
		return nil, fmt.Errorf("proposal %s is not open for booking", req.ProposalID)
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date %s: %w", req.CheckIn, err)
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("invalid check-out date %s: %w", req.CheckOut, err)
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return nil, fmt.Errorf("check-out %s must be after check-in %s", req.CheckOut, req.CheckIn)
	}

	category := entity.RoomCategory(req.Category)
	now := time.Now()

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:            utils.GenerateBookingCode(),
		EventID:         eventID,
		ProposalID:      proposalID,
		Category:        category,
		GuestName:       req.GuestName,
		GuestEmail:      utils.NormalizeEmail(req.GuestEmail),
		GuestPhone:      req.GuestPhone,
		Rooms:           req.Rooms,
		Nights:          nights,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Currency:        s.cfg.Payment.Currency,
		Status:          entity.BookingStatusPending,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		IsPaidByPlanner: event.IsPrivate,
	}

	if !booking.IsPaidByPlanner {
		holdUntil := now.Add(time.Duration(s.cfg.Booking.HoldMinutes) * time.Minute)
		booking.HoldExpiresAt = &holdUntil
	}

	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		room, err := r.Inventory.FindRoom(ctx, proposalID, category)
		if err != nil {
			return err
		}
		if room == nil {
			return fmt.Errorf("room category %s not offered by proposal %s", req.Category, req.ProposalID)
		}

		booking.PricePerNight = room.PricePerNight
		subtotal := room.PricePerNight * float64(req.Rooms) * float64(nights)
		booking.TotalAmount = roundAmount(subtotal * (1 + s.cfg.Booking.TaxRate))

		if _, err := r.Inventory.Reserve(ctx, proposalID, category, req.Rooms); err != nil {
			return err
		}
		if err := r.Booking.Create(ctx, booking); err != nil {
			return err
		}
		if err := r.Event.AddBookingStats(ctx, eventID, 1, booking.TotalAmount); err != nil {
			return err
		}
		if booking.IsPaidByPlanner && event.PlannerPaymentStatus == entity.PlannerPaymentNotRequired {
			return r.Event.UpdatePlannerPaymentStatus(ctx, eventID, entity.PlannerPaymentPending)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("code", booking.Code),
		zap.String("event_id", req.EventID),
		zap.Int("rooms", req.Rooms),
		zap.Bool("planner_funded", booking.IsPaidByPlanner),
	)

	notify.FireAndForget(s.notifier, s.log, booking.GuestEmail, notify.KindBookingReceived, map[string]string{
		"code":       booking.Code,
		"event_name": event.Name,
	})
	if planner, err := s.repo.User.FindByID(ctx, event.PlannerID); err == nil && planner != nil {
		notify.FireAndForget(s.notifier, s.log, planner.Email, notify.KindPlannerNewBooking, map[string]string{
			"code":       booking.Code,
			"event_name": event.Name,
			"guest_name": booking.GuestName,
		})
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter := repository.BookingFilter{
		Status:        entity.BookingStatus(req.Status),
		PaymentStatus: entity.PaymentStatus(req.PaymentStatus),
		Limit:         req.Limit(),
		Offset:        req.Offset(),
	}
	if req.EventID != "" {
		id, err := utils.ParseUUID(req.EventID)
		if err != nil {
			return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
		}
		filter.EventID = &id
	}
	if req.ProposalID != "" {
		id, err := utils.ParseUUID(req.ProposalID)
		if err != nil {
			return nil, fmt.Errorf("invalid proposal ID format %s: %w", req.ProposalID, err)
		}
		filter.ProposalID = &id
	}

	bookings, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, approverID, bookingID string) (*response.BookingResponse, error) {
	approverUUID, err := utils.ParseUUID(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver ID format %s: %w", approverID, err)
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(entity.BookingStatusConfirmed) {
		return nil, fmt.Errorf("cannot confirm booking in status %s: %w", booking.Status, ErrInvalidTransition)
	}
	// Guest-funded bookings hold their rooms unpaid only until the
	// hold sweep runs; approval requires the payment to have landed.
	if !booking.IsPaidByPlanner && booking.PaymentStatus != entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking %s is not paid yet: %w", booking.Code, ErrPaymentRequired)
	}

	if err := s.repo.Booking.Approve(ctx, booking.ID, approverUUID); err != nil {
		return nil, err
	}

	s.log.Info("Booking approved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("approved_by", approverID),
	)

	notify.FireAndForget(s.notifier, s.log, booking.GuestEmail, notify.KindBookingConfirmed, map[string]string{
		"code": booking.Code,
	})

	booking.Status = entity.BookingStatusConfirmed
	booking.ApprovedBy = &approverUUID
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// RejectBooking refuses a pending request and returns its rooms to the
// pool in the same transaction.
func (s *bookingService) RejectBooking(ctx context.Context, bookingID string, req *request.RejectBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(entity.BookingStatusRejected) {
		return nil, fmt.Errorf("cannot reject booking in status %s: %w", booking.Status, ErrInvalidTransition)
	}
	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking %s is already paid, refunds are handled offline", booking.Code)
	}

	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		if err := r.Booking.MarkRejected(ctx, booking.ID, req.Reason); err != nil {
			return err
		}
		if _, err := r.Inventory.Release(ctx, booking.ProposalID, booking.Category, booking.Rooms); err != nil {
			return err
		}
		return r.Event.AddBookingStats(ctx, booking.EventID, -1, -booking.TotalAmount)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking rejected",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reason", req.Reason),
	)

	notify.FireAndForget(s.notifier, s.log, booking.GuestEmail, notify.KindBookingRejected, map[string]string{
		"code":   booking.Code,
		"reason": req.Reason,
	})

	booking.Status = entity.BookingStatusRejected
	booking.RejectionReason = req.Reason
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(entity.BookingStatusCancelled) {
		return nil, fmt.Errorf("cannot cancel booking in status %s: %w", booking.Status, ErrInvalidTransition)
	}
	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking %s is already paid, refunds are handled offline", booking.Code)
	}

	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		if err := r.Booking.MarkCancelled(ctx, booking.ID, req.Reason); err != nil {
			return err
		}
		if _, err := r.Inventory.Release(ctx, booking.ProposalID, booking.Category, booking.Rooms); err != nil {
			return err
		}
		return r.Event.AddBookingStats(ctx, booking.EventID, -1, -booking.TotalAmount)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", booking.ID.String()))

	booking.Status = entity.BookingStatusCancelled
	booking.CancelReason = req.Reason
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CheckIn(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, bookingID, entity.BookingStatusCheckedIn)
}

// CheckOut completes the stay. The rooms were consumed, not freed, so
// inventory is untouched.
func (s *bookingService) CheckOut(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, bookingID, entity.BookingStatusCheckedOut)
}

func (s *bookingService) transition(ctx context.Context, bookingID string, to entity.BookingStatus) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(to) {
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w", booking.Status, to, ErrInvalidTransition)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, booking.Status, to); err != nil {
		return nil, err
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(to)),
	)

	booking.Status = to
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// CreatePaymentOrder opens a gateway order for a guest-funded booking
// still inside its hold window.
func (s *bookingService) CreatePaymentOrder(ctx context.Context, bookingID string) (*response.PaymentOrderResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsPaidByPlanner {
		return nil, fmt.Errorf("booking %s is settled by the event planner", booking.Code)
	}
	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking %s is already paid", booking.Code)
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("cannot pay booking in status %s: %w", booking.Status, ErrInvalidTransition)
	}
	if booking.HoldExpiresAt != nil && time.Now().After(*booking.HoldExpiresAt) {
		return nil, fmt.Errorf("payment hold for booking %s has expired: %w", booking.Code, ErrBookingClosed)
	}

	order, err := s.gateway.CreateOrder(ctx, booking.TotalAmount, booking.Currency, booking.Code, map[string]string{
		"booking_id": booking.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("create payment order for booking %s: %w", booking.Code, err)
	}

	if err := s.repo.Booking.SetGatewayOrder(ctx, booking.ID, order.ID); err != nil {
		return nil, err
	}

	s.log.Info("Payment order created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", order.ID),
		zap.Float64("amount", booking.TotalAmount),
	)

	return &response.PaymentOrderResponse{
		OrderID:  order.ID,
		Amount:   booking.TotalAmount,
		Currency: booking.Currency,
		KeyID:    s.cfg.Payment.KeyID,
	}, nil
}

// ConfirmPayment verifies the gateway's signed proof and marks the
// booking paid. Confirmation of the room itself stays a separate
// planner/hotel approval step.
func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID string, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking %s is already paid", booking.Code)
	}
	// A rejected or cancelled booking holds no room; money must not
	// land on it even if the guest completed checkout in another tab.
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("cannot pay booking in status %s: %w", booking.Status, ErrInvalidTransition)
	}
	if booking.GatewayOrderID == "" || booking.GatewayOrderID != req.OrderID {
		return nil, fmt.Errorf("order %s does not belong to booking %s: %w", req.OrderID, booking.Code, ErrPaymentVerificationFailed)
	}

	proof := payment.Proof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}
	if err := s.gateway.Verify(proof); err != nil {
		s.log.Warn("Payment verification failed",
			zap.String("booking_id", booking.ID.String()),
			zap.String("order_id", req.OrderID),
		)
		return nil, fmt.Errorf("verify payment for booking %s: %w", booking.Code, err)
	}

	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		if err := r.Booking.MarkPaid(ctx, booking.ID, req.PaymentID); err != nil {
			return err
		}

		now := time.Now()
		bookingRef := booking.ID
		return r.Payment.Create(ctx, &entity.Payment{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			EventID:          booking.EventID,
			BookingID:        &bookingRef,
			PayerID:          uuid.Nil,
			Amount:           booking.TotalAmount,
			Currency:         booking.Currency,
			Kind:             entity.PaymentKindGuest,
			GatewayOrderID:   req.OrderID,
			GatewayPaymentID: req.PaymentID,
			ProcessedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_id", req.PaymentID),
		zap.Float64("amount", booking.TotalAmount),
	)

	booking.PaymentStatus = entity.PaymentStatusPaid
	booking.GatewayPayID = req.PaymentID
	booking.HoldExpiresAt = nil
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) loadBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	bookingUUID, err := utils.ParseUUID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	return booking, nil
}

func roundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}
