package request

type GuestEntry struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,min=6,max=20"`
}

type AddGuestsRequest struct {
	Guests []GuestEntry `json:"guests" validate:"required,min=1,dive"`
}

type RemoveGuestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CheckAccessRequest struct {
	Email string `json:"email" validate:"required,email"`
}
