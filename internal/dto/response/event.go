package response

import (
	"time"

	"roomblock/internal/data/entity"
)

type EventResponse struct {
	ID                   string                      `json:"id"`
	Name                 string                      `json:"name"`
	PlannerID            string                      `json:"planner_id"`
	IsPrivate            bool                        `json:"is_private"`
	StartDate            string                      `json:"start_date"`
	EndDate              string                      `json:"end_date"`
	BookingDeadline      string                      `json:"booking_deadline"`
	Status               entity.EventStatus          `json:"status"`
	PlannerPaymentStatus entity.PlannerPaymentStatus `json:"planner_payment_status"`
	TotalBookings        int                         `json:"total_bookings"`
	TotalGuestCost       float64                     `json:"total_guest_cost"`
	CreatedAt            time.Time                   `json:"created_at"`
}

func EventToResponse(event *entity.Event) EventResponse {
	return EventResponse{
		ID:                   event.ID.String(),
		Name:                 event.Name,
		PlannerID:            event.PlannerID.String(),
		IsPrivate:            event.IsPrivate,
		StartDate:            event.StartDate.Format("2006-01-02"),
		EndDate:              event.EndDate.Format("2006-01-02"),
		BookingDeadline:      event.BookingDeadline.Format("2006-01-02"),
		Status:               event.Status,
		PlannerPaymentStatus: event.PlannerPaymentStatus,
		TotalBookings:        event.TotalBookings,
		TotalGuestCost:       event.TotalGuestCost,
		CreatedAt:            event.CreatedAt,
	}
}
