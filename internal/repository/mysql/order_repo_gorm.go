package mysql

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodies-backend/internal/domain"
	"foodies-backend/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save inserts the order on first save, assigning its id, and updates by
// primary key afterwards.
func (r *orderRepo) Save(order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
		return r.db.Create(order).Error
	}
	return r.db.Save(order).Error
}

func (r *orderRepo) FindByID(id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUserID(userID string) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindAll() ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindByPaymentReference(reference string) (*domain.Order, error) {
	// Orders awaiting initialization all carry an empty reference; never
	// match on it.
	if reference == "" {
		return nil, nil
	}
	var o domain.Order
	if err := r.db.First(&o, "payment_reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) DeleteByID(id string) (bool, error) {
	res := r.db.Delete(&domain.Order{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
