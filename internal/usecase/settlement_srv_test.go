package usecase

import (
	"context"
	"testing"

	"roomblock/internal/data/entity"
	"roomblock/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	*bookingFixture
	svc      SettlementService
	bookings []string
}

// newSettlementFixture builds a private event with three unpaid
// planner-funded bookings of 200 each.
func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	bf := newBookingFixture(t, true)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		req := bf.bookingRequest("invited@guest.test", 1)
		booking, err := bf.svc.CreateBooking(ctx, req)
		require.NoError(t, err)
		ids = append(ids, booking.ID)
	}

	log := testLogger()
	svc := NewSettlementService(bf.repo, bf.gateway, noopNotifier{}, testConfig(), log)

	return &settlementFixture{
		bookingFixture: bf,
		svc:            svc,
		bookings:       ids,
	}
}

func (f *settlementFixture) settle(t *testing.T, ids []string, amount float64) error {
	t.Helper()
	ctx := context.Background()

	order, err := f.svc.CreateSettlementOrder(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SettlementOrderRequest{
		BookingIDs: ids,
	})
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SettleRequest{
		BookingIDs: ids,
		Amount:     amount,
		OrderID:    order.OrderID,
		PaymentID:  "pay_settle",
		Signature:  f.gateway.sign(order.OrderID, "pay_settle"),
	})
	return err
}

func TestUnpaidBookings(t *testing.T) {
	f := newSettlementFixture(t)

	result, err := f.svc.UnpaidBookings(context.Background(), f.planner.ID.String(), f.event.ID.String())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Remaining)
	assert.Equal(t, 600.0, result.TotalDue)
}

func TestUnpaidBookings_NotOwner(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.svc.UnpaidBookings(context.Background(), f.proposal.HotelID.String(), f.event.ID.String())

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSettle_PartialThenFull(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	// Settle two of the three bookings.
	require.NoError(t, f.settle(t, f.bookings[:2], 400))

	event, err := f.repo.Event.FindByID(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlannerPaymentPartiallyPaid, event.PlannerPaymentStatus)

	result, err := f.svc.UnpaidBookings(ctx, f.planner.ID.String(), f.event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Remaining)

	// Settle the remainder.
	require.NoError(t, f.settle(t, f.bookings[2:], 200))

	event, err = f.repo.Event.FindByID(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlannerPaymentPaid, event.PlannerPaymentStatus)

	payments, err := f.repo.Payment.FindByEventID(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, entity.PaymentKindPlannerSettlement, p.Kind)
	}
}

func TestSettle_AmountMismatch(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	err := f.settle(t, f.bookings[:2], 300)
	assert.ErrorIs(t, err, ErrAmountMismatch)

	// Nothing was marked paid.
	result, err := f.svc.UnpaidBookings(ctx, f.planner.ID.String(), f.event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Remaining)
}

func TestSettle_BadSignature(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateSettlementOrder(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SettlementOrderRequest{
		BookingIDs: f.bookings[:1],
	})
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SettleRequest{
		BookingIDs: f.bookings[:1],
		Amount:     200,
		OrderID:    order.OrderID,
		PaymentID:  "pay_settle",
		Signature:  "forged",
	})
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
}

func TestSettle_RefusesAlreadyPaidBooking(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settle(t, f.bookings[:1], 200))

	_, err := f.svc.Settle(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SettleRequest{
		BookingIDs: f.bookings[:1],
		Amount:     200,
		OrderID:    "order_x",
		PaymentID:  "pay_x",
		Signature:  f.gateway.sign("order_x", "pay_x"),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already paid")
}

func TestSettle_RefusesGuestFundedBooking(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	// Flip the event public and take a guest-funded booking.
	require.NoError(t, f.repo.Event.SetPrivacy(ctx, f.event.ID, false))
	guestBooking, err := f.bookingFixture.svc.CreateBooking(ctx, f.bookingRequest("walkin@guest.test", 1))
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SettleRequest{
		BookingIDs: []string{guestBooking.ID},
		Amount:     200,
		OrderID:    "order_x",
		PaymentID:  "pay_x",
		Signature:  f.gateway.sign("order_x", "pay_x"),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "guest-funded")
}

func TestBillingSummary(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settle(t, f.bookings[:1], 200))

	summary, err := f.svc.BillingSummary(ctx, f.planner.ID.String(), f.event.ID.String())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalBookings)
	assert.Equal(t, 2, summary.UnpaidBookings)
	assert.Equal(t, 400.0, summary.UnpaidAmount)
	assert.Len(t, summary.Payments, 1)
	assert.Equal(t, entity.PlannerPaymentPartiallyPaid, summary.PlannerPaymentStatus)
}
