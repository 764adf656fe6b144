package repository

import (
	"errors"

	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type DeviceRepository interface {
	Create(device *model.Device) error
	GetByHash(hash string) (*model.Device, error)
	Save(device *model.Device) error
	ByOwnerPaginated(owner string, offset, limit int) ([]model.Device, error)
	CountByOwner(owner string) (int64, error)
	IncrementTypeCount(deviceType string) error
	TypeCount(deviceType string) (uint64, error)
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db}
}

func (r *deviceRepository) Create(device *model.Device) error {
	return r.db.Create(device).Error
}

func (r *deviceRepository) GetByHash(hash string) (*model.Device, error) {
	var device model.Device
	err := r.db.Where("device_hash = ?", hash).First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) Save(device *model.Device) error {
	return r.db.Save(device).Error
}

// ByOwnerPaginated returns the owner's devices in registration order.
// Offsets past the end yield an empty slice, never an error.
func (r *deviceRepository) ByOwnerPaginated(owner string, offset, limit int) ([]model.Device, error) {
	var devices []model.Device
	err := r.db.Where("owner = ?", owner).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&devices).Error
	return devices, err
}

func (r *deviceRepository) CountByOwner(owner string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Device{}).Where("owner = ?", owner).Count(&count).Error
	return count, err
}

func (r *deviceRepository) IncrementTypeCount(deviceType string) error {
	var row model.DeviceTypeCount
	err := r.db.Where("device_type = ?", deviceType).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&model.DeviceTypeCount{DeviceType: deviceType, Count: 1}).Error
	}
	if err != nil {
		return err
	}
	row.Count++
	return r.db.Save(&row).Error
}

func (r *deviceRepository) TypeCount(deviceType string) (uint64, error) {
	var row model.DeviceTypeCount
	err := r.db.Where("device_type = ?", deviceType).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}
