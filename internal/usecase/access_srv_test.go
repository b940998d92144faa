package usecase

import (
	"context"
	"testing"

	"roomblock/internal/data/entity"
	"roomblock/internal/dto/request"
	"roomblock/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAccess_PrivateEventRoster(t *testing.T) {
	f := newBookingFixture(t, true)
	svc := NewAccessService(f.repo, testLogger())
	ctx := context.Background()

	result, err := svc.CheckAccess(ctx, Caller{}, f.event.ID.String(), &request.CheckAccessRequest{
		Email: "stranger@guest.test",
	})
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.NotEmpty(t, result.Reason)

	result, err = svc.CheckAccess(ctx, Caller{}, f.event.ID.String(), &request.CheckAccessRequest{
		Email: "Invited@Guest.Test",
	})
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestCheckAccess_PublicEvent(t *testing.T) {
	f := newBookingFixture(t, false)
	svc := NewAccessService(f.repo, testLogger())

	result, err := svc.CheckAccess(context.Background(), Caller{}, f.event.ID.String(), &request.CheckAccessRequest{
		Email: "anyone@guest.test",
	})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

// The event's planner and admins are admitted to a private event even
// when their email is not on the roster.
func TestCheckAccess_PlannerAndAdminBypass(t *testing.T) {
	f := newBookingFixture(t, true)
	svc := NewAccessService(f.repo, testLogger())
	ctx := context.Background()

	result, err := svc.CheckAccess(ctx, Caller{ID: f.planner.ID, Role: entity.RolePlanner}, f.event.ID.String(), &request.CheckAccessRequest{
		Email: f.planner.Email,
	})
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = svc.CheckAccess(ctx, Caller{ID: utils.GenerateUUID(), Role: entity.RoleAdmin}, f.event.ID.String(), &request.CheckAccessRequest{
		Email: "admin@roomblock.test",
	})
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	// A different planner gets no bypass.
	result, err = svc.CheckAccess(ctx, Caller{ID: utils.GenerateUUID(), Role: entity.RolePlanner}, f.event.ID.String(), &request.CheckAccessRequest{
		Email: "other@planner.test",
	})
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestCallerFromContext(t *testing.T) {
	caller := CallerFromContext(context.Background())
	assert.Equal(t, uuid.Nil, caller.ID)
	assert.Empty(t, caller.Role)

	id := utils.GenerateUUID()
	ctx := utils.SetUserContext(context.Background(), id, string(entity.RoleAdmin), "admin@roomblock.test")
	caller = CallerFromContext(ctx)
	assert.Equal(t, id, caller.ID)
	assert.Equal(t, entity.RoleAdmin, caller.Role)
}
