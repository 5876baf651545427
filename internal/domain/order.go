package domain

import "time"

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Order statuses used by the kitchen flow. OrderStatus stays an open string
// because the admin status endpoint accepts arbitrary values.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	FoodID   string  `json:"foodId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID               string        `json:"id" gorm:"primaryKey;size:36"`
	UserID           string        `json:"userId" gorm:"size:36;not null;index"`
	UserAddress      string        `json:"userAddress"`
	PhoneNumber      string        `json:"phoneNumber" gorm:"size:32"`
	Email            string        `json:"email" gorm:"size:191"`
	Amount           float64       `json:"amount" gorm:"not null"`
	OrderedItems     []OrderItem   `json:"orderedItems" gorm:"serializer:json"`
	PaymentReference string        `json:"paymentReference" gorm:"size:64;index"`
	PaymentStatus    PaymentStatus `json:"paymentStatus" gorm:"type:enum('unpaid','paid');default:'unpaid'"`
	OrderStatus      string        `json:"orderStatus" gorm:"size:32"`
	CreatedAt        time.Time     `json:"createdAt" gorm:"autoCreateTime"`
}
