package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roomblock/internal/data/entity"
	"roomblock/internal/data/repository"
	"roomblock/pkg/notify"
	"roomblock/pkg/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. The inventory fake mirrors the
// conditional-update semantics of the real ledger so concurrency tests
// exercise the same invariant.

type memEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: map[uuid.UUID]*entity.Event{}}
}

func (r *memEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *memEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (r *memEventRepo) FindByPlannerID(ctx context.Context, plannerID uuid.UUID, limit, offset int) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Event
	for _, event := range r.events {
		if event.PlannerID == plannerID {
			copied := *event
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memEventRepo) CountByPlannerID(ctx context.Context, plannerID uuid.UUID) (int64, error) {
	events, _ := r.FindByPlannerID(ctx, plannerID, 0, 0)
	return int64(len(events)), nil
}

func (r *memEventRepo) SetPrivacy(ctx context.Context, id uuid.UUID, isPrivate bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id.String())
	}
	event.IsPrivate = isPrivate
	return nil
}

func (r *memEventRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id.String())
	}
	event.Status = status
	return nil
}

func (r *memEventRepo) UpdatePlannerPaymentStatus(ctx context.Context, id uuid.UUID, status entity.PlannerPaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id.String())
	}
	event.PlannerPaymentStatus = status
	return nil
}

func (r *memEventRepo) AddBookingStats(ctx context.Context, id uuid.UUID, bookingDelta int, guestCostDelta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id.String())
	}
	event.TotalBookings += bookingDelta
	event.TotalGuestCost += guestCostDelta
	return nil
}

type memProposalRepo struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*entity.HotelProposal
}

func newMemProposalRepo() *memProposalRepo {
	return &memProposalRepo{proposals: map[uuid.UUID]*entity.HotelProposal{}}
}

func (r *memProposalRepo) Create(ctx context.Context, proposal *entity.HotelProposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *proposal
	r.proposals[proposal.ID] = &copied
	return nil
}

func (r *memProposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.HotelProposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposal, ok := r.proposals[id]
	if !ok {
		return nil, nil
	}
	copied := *proposal
	return &copied, nil
}

func (r *memProposalRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.HotelProposal, error) {
	var result []*entity.HotelProposal
	for _, id := range ids {
		proposal, _ := r.FindByID(ctx, id)
		if proposal != nil {
			result = append(result, proposal)
		}
	}
	return result, nil
}

func (r *memProposalRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.HotelProposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.HotelProposal
	for _, proposal := range r.proposals {
		if proposal.EventID == eventID {
			copied := *proposal
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memProposalRepo) FindSelectedByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.HotelProposal, error) {
	proposals, _ := r.FindByEventID(ctx, eventID)
	var result []*entity.HotelProposal
	for _, proposal := range proposals {
		if proposal.SelectedByPlanner {
			result = append(result, proposal)
		}
	}
	return result, nil
}

func (r *memProposalRepo) MarkSelected(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposal, ok := r.proposals[id]
	if !ok {
		return fmt.Errorf("proposal %s not found", id.String())
	}
	proposal.Status = entity.ProposalStatusSelected
	proposal.SelectedByPlanner = true
	now := time.Now()
	proposal.SelectionDate = &now
	return nil
}

type roomKey struct {
	proposalID uuid.UUID
	category   entity.RoomCategory
}

type memInventoryRepo struct {
	mu    sync.Mutex
	rooms map[roomKey]*entity.ProposalRoom
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{rooms: map[roomKey]*entity.ProposalRoom{}}
}

func (r *memInventoryRepo) CreateRooms(ctx context.Context, rooms []*entity.ProposalRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range rooms {
		key := roomKey{room.ProposalID, room.Category}
		if _, exists := r.rooms[key]; exists {
			continue
		}
		copied := *room
		r.rooms[key] = &copied
	}
	return nil
}

func (r *memInventoryRepo) FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entity.ProposalRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.ProposalRoom
	for key, room := range r.rooms {
		if key.proposalID == proposalID {
			copied := *room
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memInventoryRepo) FindRoom(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory) (*entity.ProposalRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomKey{proposalID, category}]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

// Reserve checks and decrements under one lock, matching the
// single-statement conditional update of the real ledger.
func (r *memInventoryRepo) Reserve(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory, count int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomKey{proposalID, category}]
	if !ok {
		return 0, fmt.Errorf("proposal room %s/%s not found", proposalID.String(), category)
	}
	if room.AvailableRooms < count {
		return room.AvailableRooms, fmt.Errorf("reserve %d %s rooms (%d left): %w", count, category, room.AvailableRooms, repository.ErrInsufficientInventory)
	}
	room.AvailableRooms -= count
	return room.AvailableRooms, nil
}

func (r *memInventoryRepo) Release(ctx context.Context, proposalID uuid.UUID, category entity.RoomCategory, count int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomKey{proposalID, category}]
	if !ok {
		return 0, fmt.Errorf("proposal room %s/%s not found", proposalID.String(), category)
	}
	if room.AvailableRooms+count > room.TotalRooms {
		return 0, fmt.Errorf("release %d %s rooms for proposal %s: would exceed total offered", count, category, proposalID.String())
	}
	room.AvailableRooms += count
	return room.AvailableRooms, nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Booking, error) {
	var result []*entity.Booking
	for _, id := range ids {
		booking, _ := r.FindByID(ctx, id)
		if booking != nil {
			result = append(result, booking)
		}
	}
	return result, nil
}

func (r *memBookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range r.bookings {
		if filter.EventID != nil && booking.EventID != *filter.EventID {
			continue
		}
		if filter.ProposalID != nil && booking.ProposalID != *filter.ProposalID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && booking.PaymentStatus != filter.PaymentStatus {
			continue
		}
		copied := *booking
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memBookingRepo) Count(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	bookings, _ := r.List(ctx, filter)
	return int64(len(bookings)), nil
}

func (r *memBookingRepo) update(id uuid.UUID, fn func(b *entity.Booking)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	fn(booking)
	return nil
}

// updateWhere applies the mutation only while pred holds, under the
// same lock, mirroring the conditional UPDATE of the real repository.
func (r *memBookingRepo) updateWhere(id uuid.UUID, pred func(b *entity.Booking) bool, fn func(b *entity.Booking)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	if !pred(booking) {
		return fmt.Errorf("booking %s is %s/%s: %w", id.String(), booking.Status, booking.PaymentStatus, repository.ErrInvalidTransition)
	}
	fn(booking)
	return nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	return r.updateWhere(id,
		func(b *entity.Booking) bool { return b.Status == from },
		func(b *entity.Booking) { b.Status = to })
}

func (r *memBookingRepo) Approve(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID) error {
	return r.updateWhere(id,
		func(b *entity.Booking) bool { return b.Status == entity.BookingStatusPending },
		func(b *entity.Booking) {
			b.Status = entity.BookingStatusConfirmed
			b.ApprovedBy = &approvedBy
			now := time.Now()
			b.ApprovedAt = &now
		})
}

func (r *memBookingRepo) MarkRejected(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateWhere(id,
		func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusPending && b.PaymentStatus == entity.PaymentStatusUnpaid
		},
		func(b *entity.Booking) {
			b.Status = entity.BookingStatusRejected
			b.RejectionReason = reason
		})
}

func (r *memBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateWhere(id,
		func(b *entity.Booking) bool {
			open := b.Status == entity.BookingStatusPending || b.Status == entity.BookingStatusConfirmed
			return open && b.PaymentStatus == entity.PaymentStatusUnpaid
		},
		func(b *entity.Booking) {
			b.Status = entity.BookingStatusCancelled
			b.CancelReason = reason
		})
}

func (r *memBookingRepo) MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
	return r.updateWhere(id,
		func(b *entity.Booking) bool {
			closed := b.Status == entity.BookingStatusRejected || b.Status == entity.BookingStatusCancelled
			return !closed && b.PaymentStatus == entity.PaymentStatusUnpaid
		},
		func(b *entity.Booking) {
			b.PaymentStatus = entity.PaymentStatusPaid
			b.GatewayPayID = gatewayPaymentID
			b.HoldExpiresAt = nil
		})
}

func (r *memBookingRepo) SetGatewayOrder(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	return r.update(id, func(b *entity.Booking) { b.GatewayOrderID = gatewayOrderID })
}

func (r *memBookingRepo) FindUnpaidPlannerFunded(ctx context.Context, eventID uuid.UUID) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range r.bookings {
		if booking.EventID != eventID || !booking.IsPaidByPlanner {
			continue
		}
		if booking.PaymentStatus != entity.PaymentStatusUnpaid {
			continue
		}
		if booking.Status == entity.BookingStatusRejected || booking.Status == entity.BookingStatusCancelled {
			continue
		}
		copied := *booking
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memBookingRepo) CountUnpaidPlannerFunded(ctx context.Context, eventID uuid.UUID) (int64, error) {
	bookings, _ := r.FindUnpaidPlannerFunded(ctx, eventID)
	return int64(len(bookings)), nil
}

func (r *memBookingRepo) FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range r.bookings {
		if booking.Status != entity.BookingStatusPending || booking.IsPaidByPlanner {
			continue
		}
		if booking.PaymentStatus != entity.PaymentStatusUnpaid {
			continue
		}
		if booking.HoldExpiresAt == nil || !booking.HoldExpiresAt.Before(cutoff) {
			continue
		}
		copied := *booking
		result = append(result, &copied)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

type memInvitationRepo struct {
	mu          sync.Mutex
	invitations map[uuid.UUID]*entity.GuestInvitation
}

func newMemInvitationRepo() *memInvitationRepo {
	return &memInvitationRepo{invitations: map[uuid.UUID]*entity.GuestInvitation{}}
}

func (r *memInvitationRepo) AddBatch(ctx context.Context, invitations []*entity.GuestInvitation) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	added := 0
	for _, inv := range invitations {
		duplicate := false
		for _, existing := range r.invitations {
			if existing.EventID == inv.EventID && existing.Email == inv.Email {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		copied := *inv
		r.invitations[inv.ID] = &copied
		added++
	}
	return added, nil
}

func (r *memInvitationRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.GuestInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.GuestInvitation
	for _, inv := range r.invitations {
		if inv.EventID == eventID {
			copied := *inv
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memInvitationRepo) FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.GuestInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.EventID == eventID && inv.Email == email {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memInvitationRepo) MarkAccessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[id]
	if !ok {
		return fmt.Errorf("invitation %s not found", id.String())
	}
	inv.HasAccessed = true
	return nil
}

func (r *memInvitationRepo) Remove(ctx context.Context, eventID uuid.UUID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, inv := range r.invitations {
		if inv.EventID == eventID && inv.Email == email {
			delete(r.invitations, id)
			return nil
		}
	}
	return fmt.Errorf("invitation %s not found for event %s", email, eventID.String())
}

type memPaymentRepo struct {
	mu       sync.Mutex
	payments []*entity.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{}
}

func (r *memPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *payment
	r.payments = append(r.payments, &copied)
	return nil
}

func (r *memPaymentRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Payment
	for _, p := range r.payments {
		if p.EventID == eventID {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

type memSessionRepo struct{}

func (r *memSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return nil, nil
}

// passthroughTx runs the function against the same repository set.
// Rollback semantics are not simulated; tests assert on end state.
type passthroughTx struct {
	repo *repository.Repository
}

func (t *passthroughTx) Atomic(ctx context.Context, fn func(r *repository.Repository) error) error {
	return fn(t.repo)
}

func newTestRepository() *repository.Repository {
	repo := &repository.Repository{
		User:       newMemUserRepo(),
		Session:    &memSessionRepo{},
		Event:      newMemEventRepo(),
		Proposal:   newMemProposalRepo(),
		Inventory:  newMemInventoryRepo(),
		Booking:    newMemBookingRepo(),
		Invitation: newMemInvitationRepo(),
		Payment:    newMemPaymentRepo(),
	}
	repo.Tx = &passthroughTx{repo: repo}
	return repo
}

// fakeGateway signs orders like the real gateway and verifies with the
// same shared-secret scheme.
type fakeGateway struct {
	mu      sync.Mutex
	secret  string
	orders  int
	lastAmt float64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{secret: "test-secret"}
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders++
	g.lastAmt = amount
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *fakeGateway) Verify(proof payment.Proof) error {
	if proof.Signature != payment.Sign(g.secret, proof.OrderID, proof.PaymentID) {
		return payment.ErrVerificationFailed
	}
	return nil
}

func (g *fakeGateway) sign(orderID, paymentID string) string {
	return payment.Sign(g.secret, orderID, paymentID)
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, recipient string, kind notify.Kind, payload map[string]string) error {
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
