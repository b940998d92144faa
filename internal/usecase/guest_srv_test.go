package usecase

import (
	"context"
	"testing"

	"roomblock/internal/dto/request"
	"roomblock/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuestService(f *bookingFixture) GuestService {
	return NewGuestService(f.repo, testLogger())
}

func TestAddGuests_DedupesWithinAndAcrossBatches(t *testing.T) {
	f := newBookingFixture(t, true)
	svc := newGuestService(f)
	ctx := context.Background()

	result, err := svc.AddGuests(ctx, f.planner.ID.String(), f.event.ID.String(), &request.AddGuestsRequest{
		Guests: []request.GuestEntry{
			{Name: "Ana", Email: "ana@guest.test"},
			{Name: "Ana Again", Email: "ANA@guest.test"},
			{Name: "Budi", Email: "budi@guest.test"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 1, result.Skipped)

	// Re-adding an existing guest is skipped, not an error.
	result, err = svc.AddGuests(ctx, f.planner.ID.String(), f.event.ID.String(), &request.AddGuestsRequest{
		Guests: []request.GuestEntry{
			{Name: "Ana", Email: "ana@guest.test"},
			{Name: "Citra", Email: "citra@guest.test"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)

	guests, err := svc.ListGuests(ctx, f.planner.ID.String(), f.event.ID.String())
	require.NoError(t, err)
	// invited@guest.test from the fixture plus the three added here
	assert.Len(t, guests, 4)
}

func TestAddGuests_NotOwner(t *testing.T) {
	f := newBookingFixture(t, true)
	svc := newGuestService(f)

	_, err := svc.AddGuests(context.Background(), utils.GenerateUUID().String(), f.event.ID.String(), &request.AddGuestsRequest{
		Guests: []request.GuestEntry{{Name: "Ana", Email: "ana@guest.test"}},
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRemoveGuest(t *testing.T) {
	f := newBookingFixture(t, true)
	svc := newGuestService(f)
	ctx := context.Background()

	err := svc.RemoveGuest(ctx, f.planner.ID.String(), f.event.ID.String(), &request.RemoveGuestRequest{
		Email: "Invited@Guest.Test",
	})
	require.NoError(t, err)

	// The removed guest loses access to the private event.
	_, err = f.svc.CreateBooking(ctx, f.bookingRequest("invited@guest.test", 1))
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Removing an unknown email reports not found.
	err = svc.RemoveGuest(ctx, f.planner.ID.String(), f.event.ID.String(), &request.RemoveGuestRequest{
		Email: "ghost@guest.test",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
