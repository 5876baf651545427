package mysql

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodies-backend/internal/domain"
	"foodies-backend/internal/repository"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Save(cart *domain.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.NewString()
		return r.db.Create(cart).Error
	}
	return r.db.Save(cart).Error
}

func (r *cartRepo) FindByUserID(userID string) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.db.First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) DeleteByUserID(userID string) error {
	return r.db.Delete(&domain.Cart{}, "user_id = ?", userID).Error
}
