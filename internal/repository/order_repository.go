package repository

import (
	"foodies-backend/internal/domain"
)

// OrderRepository persists orders. Lookups that miss return (nil, nil);
// callers decide whether a miss is an error.
type OrderRepository interface {
	Save(order *domain.Order) error
	FindByID(id string) (*domain.Order, error)
	FindByUserID(userID string) ([]domain.Order, error)
	FindAll() ([]domain.Order, error)
	FindByPaymentReference(reference string) (*domain.Order, error)
	DeleteByID(id string) (bool, error)
}
