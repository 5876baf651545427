package services

import (
	"time"

	"foodies-backend/internal/domain"
)

const (
	TestUserID    = "user-1"
	TestOrderID   = "order-1"
	TestReference = "ref-1"
	TestEmail     = "a@b.com"
	TestAmount    = 1500.00
)

func CreateMockOrder(id, userID string, amount float64, payStatus domain.PaymentStatus, orderStatus, reference string) *domain.Order {
	return &domain.Order{
		ID:               id,
		UserID:           userID,
		UserAddress:      "12 Allen Avenue, Ikeja",
		PhoneNumber:      "+2348012345678",
		Email:            TestEmail,
		Amount:           amount,
		PaymentReference: reference,
		PaymentStatus:    payStatus,
		OrderStatus:      orderStatus,
		OrderedItems: []domain.OrderItem{
			{FoodID: "food-1", Quantity: 2, Price: amount / 2},
		},
		CreatedAt: time.Now(),
	}
}

func CreateMockCart(userID string, items map[string]int) *domain.Cart {
	return &domain.Cart{
		ID:     "cart-1",
		UserID: userID,
		Items:  items,
	}
}
