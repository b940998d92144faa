package usecase

import (
	"context"
	"testing"
	"time"

	"roomblock/internal/data/entity"
	"roomblock/internal/dto/request"
	"roomblock/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventService(f *bookingFixture) EventService {
	return NewEventService(f.repo, testLogger())
}

func TestCreateEvent(t *testing.T) {
	repo := newTestRepository()
	svc := NewEventService(repo, testLogger())
	plannerID := utils.GenerateUUID().String()

	base := time.Now().AddDate(0, 1, 0)
	event, err := svc.CreateEvent(context.Background(), plannerID, &request.CreateEventRequest{
		Name:            "Tech Conference",
		IsPrivate:       true,
		StartDate:       base.Format("2006-01-02"),
		EndDate:         base.AddDate(0, 0, 3).Format("2006-01-02"),
		BookingDeadline: base.AddDate(0, 0, -7).Format("2006-01-02"),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusActive, event.Status)
	assert.Equal(t, entity.PlannerPaymentNotRequired, event.PlannerPaymentStatus)
	assert.True(t, event.IsPrivate)
}

func TestCreateEvent_DeadlineAfterStart(t *testing.T) {
	repo := newTestRepository()
	svc := NewEventService(repo, testLogger())

	base := time.Now().AddDate(0, 1, 0)
	_, err := svc.CreateEvent(context.Background(), utils.GenerateUUID().String(), &request.CreateEventRequest{
		Name:            "Tech Conference",
		StartDate:       base.Format("2006-01-02"),
		EndDate:         base.AddDate(0, 0, 3).Format("2006-01-02"),
		BookingDeadline: base.AddDate(0, 0, 1).Format("2006-01-02"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "deadline")
}

// Flipping privacy changes the gate for future bookings only; funding
// of existing bookings is frozen at creation time.
func TestSetPrivacy_ProspectiveOnly(t *testing.T) {
	f := newBookingFixture(t, false)
	eventSvc := newEventService(f)
	ctx := context.Background()

	// Guest-funded booking while the event is public.
	publicBooking, err := f.svc.CreateBooking(ctx, f.bookingRequest("walkin@guest.test", 1))
	require.NoError(t, err)
	assert.False(t, publicBooking.IsPaidByPlanner)

	isPrivate := true
	_, err = eventSvc.SetPrivacy(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SetPrivacyRequest{
		IsPrivate: &isPrivate,
	})
	require.NoError(t, err)

	// Old booking keeps its funding mode.
	stored, err := f.repo.Booking.FindByID(ctx, uuid.MustParse(publicBooking.ID))
	require.NoError(t, err)
	assert.False(t, stored.IsPaidByPlanner)

	// New bookings now go through the roster gate.
	_, err = f.svc.CreateBooking(ctx, f.bookingRequest("walkin@guest.test", 1))
	assert.ErrorIs(t, err, ErrAccessDenied)

	// And roster guests book planner-funded.
	guestSvc := newGuestService(f)
	_, err = guestSvc.AddGuests(ctx, f.planner.ID.String(), f.event.ID.String(), &request.AddGuestsRequest{
		Guests: []request.GuestEntry{{Name: "Late Invite", Email: "late@guest.test"}},
	})
	require.NoError(t, err)

	privateBooking, err := f.svc.CreateBooking(ctx, f.bookingRequest("late@guest.test", 1))
	require.NoError(t, err)
	assert.True(t, privateBooking.IsPaidByPlanner)
}

func TestSetPrivacy_NotOwner(t *testing.T) {
	f := newBookingFixture(t, false)
	eventSvc := newEventService(f)

	isPrivate := true
	_, err := eventSvc.SetPrivacy(context.Background(), utils.GenerateUUID().String(), f.event.ID.String(), &request.SetPrivacyRequest{
		IsPrivate: &isPrivate,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSelectProposals(t *testing.T) {
	f := newBookingFixture(t, false)
	eventSvc := newEventService(f)
	ctx := context.Background()

	// A freshly submitted proposal from a second hotel.
	proposalSvc := NewProposalService(f.repo, testLogger())
	submitted, err := proposalSvc.SubmitProposal(ctx, utils.GenerateUUID().String(), f.event.ID.String(), &request.SubmitProposalRequest{
		HotelName: "Harbor View",
		Rooms: []request.ProposalRoomRequest{
			{Category: "single", PricePerNight: 80, TotalRooms: 10},
			{Category: "suite", PricePerNight: 250, TotalRooms: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusSubmitted, submitted.Status)

	selected, err := eventSvc.SelectProposals(ctx, f.planner.ID.String(), f.event.ID.String(), &request.SelectProposalsRequest{
		ProposalIDs: []string{submitted.ID},
	})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.True(t, selected[0].SelectedByPlanner)
	assert.Len(t, selected[0].Rooms, 2)

	// Selection opens the proposal for booking.
	req := f.bookingRequest("walkin@guest.test", 1)
	req.ProposalID = submitted.ID
	req.Category = "suite"
	booking, err := f.svc.CreateBooking(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 500.0, booking.TotalAmount)
}
