package request

type CreateBookingRequest struct {
	EventID    string `json:"event_id" validate:"required,uuid4"`
	ProposalID string `json:"proposal_id" validate:"required,uuid4"`
	Category   string `json:"category" validate:"required,oneof=single double suite"`
	Rooms      int    `json:"rooms" validate:"required,min=1,max=20"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestName  string `json:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,min=6,max=20"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ConfirmPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	EventID       string `json:"event_id" validate:"omitempty,uuid4"`
	ProposalID    string `json:"proposal_id" validate:"omitempty,uuid4"`
	Status        string `json:"status" validate:"omitempty,oneof=pending confirmed rejected cancelled checked-in checked-out"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
}
