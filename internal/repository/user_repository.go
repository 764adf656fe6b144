package repository

import (
	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByAddress(address string) (model.User, error) {
	var user model.User
	err := r.db.Where("address = ?", address).First(&user).Error
	return user, err
}
