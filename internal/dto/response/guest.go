package response

import (
	"time"

	"roomblock/internal/data/entity"
)

type GuestResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	HasAccessed bool      `json:"has_accessed"`
	AddedAt     time.Time `json:"added_at"`
}

type AddGuestsResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

type AccessCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func GuestToResponse(inv *entity.GuestInvitation) GuestResponse {
	return GuestResponse{
		ID:          inv.ID.String(),
		Name:        inv.Name,
		Email:       inv.Email,
		Phone:       inv.Phone,
		HasAccessed: inv.HasAccessed,
		AddedAt:     inv.AddedAt,
	}
}

func GuestsToResponse(invitations []*entity.GuestInvitation) []GuestResponse {
	out := make([]GuestResponse, 0, len(invitations))
	for _, inv := range invitations {
		out = append(out, GuestToResponse(inv))
	}
	return out
}
