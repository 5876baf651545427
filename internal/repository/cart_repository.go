package repository

import (
	"foodies-backend/internal/domain"
)

type CartRepository interface {
	Save(cart *domain.Cart) error
	FindByUserID(userID string) (*domain.Cart, error)
	// DeleteByUserID removes the user's cart. Deleting an absent cart is a no-op.
	DeleteByUserID(userID string) error
}
