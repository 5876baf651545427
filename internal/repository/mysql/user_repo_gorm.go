package mysql

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodies-backend/internal/domain"
	"foodies-backend/internal/repository"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Save(user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
		return r.db.Create(user).Error
	}
	return r.db.Save(user).Error
}

func (r *userRepo) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByID(id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
