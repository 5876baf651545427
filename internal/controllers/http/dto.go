package http

import "foodies-backend/internal/domain"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type CreateOrderRequest struct {
	UserAddress  string             `json:"userAddress"`
	PhoneNumber  string             `json:"phoneNumber"`
	Email        string             `json:"email" binding:"required,email"`
	Amount       float64            `json:"amount" binding:"required"`
	OrderStatus  string             `json:"orderStatus"`
	OrderedItems []domain.OrderItem `json:"orderedItems" binding:"required,min=1"`
}

type OrderResponse struct {
	domain.Order
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
}

type VerifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

type CartRequest struct {
	FoodID string `json:"foodId" binding:"required"`
}
