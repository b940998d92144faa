package request

type CreateEventRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=200"`
	IsPrivate       bool   `json:"is_private"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	BookingDeadline string `json:"booking_deadline" validate:"required,datetime=2006-01-02"`
}

type SetPrivacyRequest struct {
	IsPrivate *bool `json:"is_private" validate:"required"`
}

type SelectProposalsRequest struct {
	ProposalIDs []string `json:"proposal_ids" validate:"required,min=1,dive,uuid4"`
}

type SubmitProposalRequest struct {
	HotelName string                `json:"hotel_name" validate:"required,min=2,max=200"`
	Rooms     []ProposalRoomRequest `json:"rooms" validate:"required,min=1,dive"`
}

type ProposalRoomRequest struct {
	Category      string  `json:"category" validate:"required,oneof=single double suite"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	TotalRooms    int     `json:"total_rooms" validate:"required,min=1"`
}
