package request

type SettlementOrderRequest struct {
	BookingIDs []string `json:"booking_ids" validate:"required,min=1,dive,uuid4"`
}

type SettleRequest struct {
	BookingIDs []string `json:"booking_ids" validate:"required,min=1,dive,uuid4"`
	Amount     float64  `json:"amount" validate:"required,gt=0"`
	OrderID    string   `json:"order_id" validate:"required"`
	PaymentID  string   `json:"payment_id" validate:"required"`
	Signature  string   `json:"signature" validate:"required"`
}
