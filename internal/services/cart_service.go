package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"foodies-backend/internal/domain"
	"foodies-backend/internal/repository"
)

var ErrCartNotFound = errors.New("cart not found")

type CartService struct {
	repo   repository.CartRepository
	logger *zap.Logger
}

func NewCartService(r repository.CartRepository, logger *zap.Logger) *CartService {
	return &CartService{repo: r, logger: logger}
}

// AddToCart increments the quantity of a food item in the caller's cart,
// creating the cart on first use.
func (s *CartService) AddToCart(ctx context.Context, userID, foodID string) (*domain.Cart, error) {
	cart, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &domain.Cart{UserID: userID, Items: map[string]int{}}
	}
	if cart.Items == nil {
		cart.Items = map[string]int{}
	}

	cart.Items[foodID]++
	if err := s.repo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart returns the caller's cart, or an empty one when none is stored.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &domain.Cart{UserID: userID, Items: map[string]int{}}, nil
	}
	return cart, nil
}

// RemoveFromCart decrements the quantity of a food item, dropping the entry
// when it reaches zero.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, foodID string) (*domain.Cart, error) {
	cart, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	if qty, ok := cart.Items[foodID]; ok {
		if qty > 1 {
			cart.Items[foodID] = qty - 1
		} else {
			delete(cart.Items, foodID)
		}
		if err := s.repo.Save(cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// ClearForUser drops the user's cart. Absence of a cart is not an error.
func (s *CartService) ClearForUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUserID(userID)
}
