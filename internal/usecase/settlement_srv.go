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

// SettlementService collects planner-funded bookings into gateway
// orders and marks them paid once a verified payment covers them
// exactly. Partial settlement is allowed, partial coverage of the
// selected set is not.
type SettlementService interface {
	UnpaidBookings(ctx context.Context, plannerID, eventID string) (*response.UnpaidBookingsResponse, error)
	CreateSettlementOrder(ctx context.Context, plannerID, eventID string, req *request.SettlementOrderRequest) (*response.PaymentOrderResponse, error)
	Settle(ctx context.Context, plannerID, eventID string, req *request.SettleRequest) (*response.SettlementResponse, error)
	BillingSummary(ctx context.Context, plannerID, eventID string) (*response.BillingSummaryResponse, error)
}

type settlementService struct {
	repo     *repository.Repository
	gateway  payment.Gateway
	notifier notify.Notifier
	cfg      *utils.Config
	log      *zap.Logger
}

func NewSettlementService(
	repo *repository.Repository,
	gateway payment.Gateway,
	notifier notify.Notifier,
	cfg *utils.Config,
	log *zap.Logger,
) SettlementService {
	return &settlementService{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With(zap.String("service", "settlement")),
	}
}

func (s *settlementService) UnpaidBookings(ctx context.Context, plannerID, eventID string) (*response.UnpaidBookingsResponse, error) {
	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindUnpaidPlannerFunded(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	totalDue := 0.0
	for _, b := range bookings {
		totalDue += b.TotalAmount
	}

	return &response.UnpaidBookingsResponse{
		Bookings:  response.BookingsToResponse(bookings),
		TotalDue:  roundAmount(totalDue),
		Currency:  s.cfg.Payment.Currency,
		Remaining: len(bookings),
	}, nil
}

// CreateSettlementOrder opens a gateway order covering the selected
// bookings. The planner may settle any subset, the order amount is the
// exact sum of that subset.
func (s *settlementService) CreateSettlementOrder(ctx context.Context, plannerID, eventID string, req *request.SettlementOrderRequest) (*response.PaymentOrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	bookings, total, err := s.loadSettleableBookings(ctx, event, req.BookingIDs)
	if err != nil {
		return nil, err
	}

	receipt := utils.GenerateReceiptID("SETTLE")
	order, err := s.gateway.CreateOrder(ctx, total, s.cfg.Payment.Currency, receipt, map[string]string{
		"event_id": event.ID.String(),
		"bookings": fmt.Sprintf("%d", len(bookings)),
	})
	if err != nil {
		return nil, fmt.Errorf("create settlement order for event %s: %w", eventID, err)
	}

	// Stamp the order onto each booking for the audit trail.
	for _, b := range bookings {
		if err := s.repo.Booking.SetGatewayOrder(ctx, b.ID, order.ID); err != nil {
			return nil, err
		}
	}

	s.log.Info("Settlement order created",
		zap.String("event_id", event.ID.String()),
		zap.String("order_id", order.ID),
		zap.Int("bookings", len(bookings)),
		zap.Float64("amount", total),
	)

	return &response.PaymentOrderResponse{
		OrderID:  order.ID,
		Amount:   total,
		Currency: s.cfg.Payment.Currency,
		KeyID:    s.cfg.Payment.KeyID,
	}, nil
}

// Settle verifies the payment proof and marks the selected bookings
// paid. The paid amount must equal the sum of the selected bookings to
// the cent; anything else is rejected before touching state.
func (s *settlementService) Settle(ctx context.Context, plannerID, eventID string, req *request.SettleRequest) (*response.SettlementResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	bookings, total, err := s.loadSettleableBookings(ctx, event, req.BookingIDs)
	if err != nil {
		return nil, err
	}

	if math.Abs(total-req.Amount) >= 0.01 {
		s.log.Warn("Settlement amount mismatch",
			zap.String("event_id", event.ID.String()),
			zap.Float64("expected", total),
			zap.Float64("got", req.Amount),
		)
		return nil, fmt.Errorf("settlement of %.2f against bookings totalling %.2f: %w", req.Amount, total, ErrAmountMismatch)
	}

	proof := payment.Proof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}
	if err := s.gateway.Verify(proof); err != nil {
		s.log.Warn("Settlement verification failed",
			zap.String("event_id", event.ID.String()),
			zap.String("order_id", req.OrderID),
		)
		return nil, fmt.Errorf("verify settlement for event %s: %w", eventID, err)
	}

	var remaining int64
	err = s.repo.Tx.Atomic(ctx, func(r *repository.Repository) error {
		for _, b := range bookings {
			if err := r.Booking.MarkPaid(ctx, b.ID, req.PaymentID); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := r.Payment.Create(ctx, &entity.Payment{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			EventID:          event.ID,
			PayerID:          event.PlannerID,
			Amount:           total,
			Currency:         s.cfg.Payment.Currency,
			Kind:             entity.PaymentKindPlannerSettlement,
			GatewayOrderID:   req.OrderID,
			GatewayPaymentID: req.PaymentID,
			ProcessedAt:      now,
		}); err != nil {
			return err
		}

		left, err := r.Booking.CountUnpaidPlannerFunded(ctx, event.ID)
		if err != nil {
			return err
		}
		remaining = left

		status := entity.PlannerPaymentPartiallyPaid
		if remaining == 0 {
			status = entity.PlannerPaymentPaid
		}
		return r.Event.UpdatePlannerPaymentStatus(ctx, event.ID, status)
	})
	if err != nil {
		return nil, err
	}

	status := entity.PlannerPaymentPartiallyPaid
	if remaining == 0 {
		status = entity.PlannerPaymentPaid
	}

	s.log.Info("Settlement completed",
		zap.String("event_id", event.ID.String()),
		zap.Int("settled", len(bookings)),
		zap.Float64("amount", total),
		zap.Int64("remaining", remaining),
	)

	if planner, err := s.repo.User.FindByID(ctx, event.PlannerID); err == nil && planner != nil {
		notify.FireAndForget(s.notifier, s.log, planner.Email, notify.KindSettlementDone, map[string]string{
			"event_name": event.Name,
			"amount":     fmt.Sprintf("%.2f", total),
		})
	}

	return &response.SettlementResponse{
		SettledBookings: len(bookings),
		AmountPaid:      total,
		Currency:        s.cfg.Payment.Currency,
		Remaining:       int(remaining),
		PaymentStatus:   status,
	}, nil
}

func (s *settlementService) BillingSummary(ctx context.Context, plannerID, eventID string) (*response.BillingSummaryResponse, error) {
	event, err := s.loadOwnedEvent(ctx, plannerID, eventID)
	if err != nil {
		return nil, err
	}

	unpaid, err := s.repo.Booking.FindUnpaidPlannerFunded(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	unpaidAmount := 0.0
	for _, b := range unpaid {
		unpaidAmount += b.TotalAmount
	}

	payments, err := s.repo.Payment.FindByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	records := make([]response.PaymentRecordResponse, 0, len(payments))
	for _, p := range payments {
		records = append(records, response.PaymentToRecordResponse(p))
	}

	return &response.BillingSummaryResponse{
		EventID:              event.ID.String(),
		PlannerPaymentStatus: event.PlannerPaymentStatus,
		TotalBookings:        event.TotalBookings,
		TotalGuestCost:       event.TotalGuestCost,
		UnpaidBookings:       len(unpaid),
		UnpaidAmount:         roundAmount(unpaidAmount),
		Payments:             records,
	}, nil
}

// loadSettleableBookings resolves the requested IDs and refuses the
// batch if any booking is not an unpaid, live, planner-funded booking
// of this event. Returns the bookings and their exact sum.
func (s *settlementService) loadSettleableBookings(ctx context.Context, event *entity.Event, idStrs []string) ([]*entity.Booking, float64, error) {
	ids := make([]uuid.UUID, 0, len(idStrs))
	for _, idStr := range idStrs {
		id, err := utils.ParseUUID(idStr)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid booking ID format %s: %w", idStr, err)
		}
		ids = append(ids, id)
	}

	bookings, err := s.repo.Booking.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	if len(bookings) != len(ids) {
		return nil, 0, fmt.Errorf("one or more bookings not found")
	}

	total := 0.0
	for _, b := range bookings {
		if b.EventID != event.ID {
			return nil, 0, fmt.Errorf("booking %s does not belong to event %s", b.Code, event.ID.String())
		}
		if !b.IsPaidByPlanner {
			return nil, 0, fmt.Errorf("booking %s is guest-funded and cannot be settled by the planner", b.Code)
		}
		if b.PaymentStatus != entity.PaymentStatusUnpaid {
			return nil, 0, fmt.Errorf("booking %s is already paid", b.Code)
		}
		if b.Status == entity.BookingStatusRejected || b.Status == entity.BookingStatusCancelled {
			return nil, 0, fmt.Errorf("booking %s is %s and owes nothing", b.Code, b.Status)
		}
		total += b.TotalAmount
	}

	return bookings, roundAmount(total), nil
}

func (s *settlementService) loadOwnedEvent(ctx context.Context, plannerID, eventID string) (*entity.Event, error) {
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
