package repository

import (
	"errors"

	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type PauseRepository interface {
	IsPaused(name string) (bool, error)
	SetPaused(name string, paused bool) error
}

type pauseRepository struct {
	db *gorm.DB
}

func NewPauseRepository(db *gorm.DB) PauseRepository {
	return &pauseRepository{db}
}

func (r *pauseRepository) IsPaused(name string) (bool, error) {
	var flag model.PauseFlag
	err := r.db.Where("name = ?", name).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return flag.Paused, nil
}

func (r *pauseRepository) SetPaused(name string, paused bool) error {
	var flag model.PauseFlag
	err := r.db.Where("name = ?", name).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&model.PauseFlag{Name: name, Paused: paused}).Error
	}
	if err != nil {
		return err
	}
	flag.Paused = paused
	return r.db.Save(&flag).Error
}
