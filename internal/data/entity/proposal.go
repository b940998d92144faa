package entity

import (
	"time"

	"github.com/google/uuid"
)

type RoomCategory string

const (
	RoomCategorySingle RoomCategory = "single"
	RoomCategoryDouble RoomCategory = "double"
	RoomCategorySuite  RoomCategory = "suite"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case RoomCategorySingle, RoomCategoryDouble, RoomCategorySuite:
		return true
	}
	return false
}

type ProposalStatus string

const (
	ProposalStatusSubmitted   ProposalStatus = "submitted"
	ProposalStatusUnderReview ProposalStatus = "under-review"
	ProposalStatusSelected    ProposalStatus = "selected"
	ProposalStatusRejected    ProposalStatus = "rejected"
)

// HotelProposal is a hotel's offered room block for one event.
// Everything except the per-category available counters is set once at
// selection time.
type HotelProposal struct {
	Base
	EventID           uuid.UUID      `db:"event_id"`
	HotelID           uuid.UUID      `db:"hotel_id"`
	HotelName         string         `db:"hotel_name"`
	TotalRoomsOffered int            `db:"total_rooms_offered"`
	Status            ProposalStatus `db:"status"`
	SelectedByPlanner bool           `db:"selected_by_planner"`
	SelectionDate     *time.Time     `db:"selection_date"`
}

// ProposalRoom is one depleting inventory counter, keyed
// (proposal_id, category). Invariant: 0 <= available_rooms <= total_rooms.
type ProposalRoom struct {
	ProposalID     uuid.UUID    `db:"proposal_id"`
	Category       RoomCategory `db:"category"`
	PricePerNight  float64      `db:"price_per_night"`
	TotalRooms     int          `db:"total_rooms"`
	AvailableRooms int          `db:"available_rooms"`
}
