package response

import (
	"time"

	"roomblock/internal/data/entity"
)

type ProposalResponse struct {
	ID                string                `json:"id"`
	EventID           string                `json:"event_id"`
	HotelName         string                `json:"hotel_name"`
	TotalRoomsOffered int                   `json:"total_rooms_offered"`
	Status            entity.ProposalStatus `json:"status"`
	SelectedByPlanner bool                  `json:"selected_by_planner"`
	SelectionDate     *time.Time            `json:"selection_date,omitempty"`
	Rooms             []RoomAvailability    `json:"rooms,omitempty"`
}

type RoomAvailability struct {
	Category       entity.RoomCategory `json:"category"`
	PricePerNight  float64             `json:"price_per_night"`
	TotalRooms     int                 `json:"total_rooms"`
	AvailableRooms int                 `json:"available_rooms"`
}

func ProposalToResponse(p *entity.HotelProposal, rooms []*entity.ProposalRoom) ProposalResponse {
	resp := ProposalResponse{
		ID:                p.ID.String(),
		EventID:           p.EventID.String(),
		HotelName:         p.HotelName,
		TotalRoomsOffered: p.TotalRoomsOffered,
		Status:            p.Status,
		SelectedByPlanner: p.SelectedByPlanner,
		SelectionDate:     p.SelectionDate,
	}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, RoomAvailability{
			Category:       room.Category,
			PricePerNight:  room.PricePerNight,
			TotalRooms:     room.TotalRooms,
			AvailableRooms: room.AvailableRooms,
		})
	}
	return resp
}
