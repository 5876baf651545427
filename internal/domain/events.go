package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderPaidEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Reference string    `json:"reference"`
	PaidAt    time.Time `json:"paidAt"`
}
