package repository

import (
	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type LedgerRepository interface {
	Append(record *model.DataRecord) error
	Save(record *model.DataRecord) error
	ByDevice(deviceHash string, offset, limit int) ([]model.DataRecord, error)
	ByDeviceAll(deviceHash string) ([]model.DataRecord, error)
	ByIndex(deviceHash string, index uint64) (*model.DataRecord, error)
	CountByDevice(deviceHash string) (int64, error)
	CountValidated(deviceHash string) (int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db}
}

func (r *ledgerRepository) Append(record *model.DataRecord) error {
	return r.db.Create(record).Error
}

func (r *ledgerRepository) Save(record *model.DataRecord) error {
	return r.db.Save(record).Error
}

func (r *ledgerRepository) ByDevice(deviceHash string, offset, limit int) ([]model.DataRecord, error) {
	var records []model.DataRecord
	err := r.db.Where("device_hash = ?", deviceHash).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *ledgerRepository) ByDeviceAll(deviceHash string) ([]model.DataRecord, error) {
	var records []model.DataRecord
	err := r.db.Where("device_hash = ?", deviceHash).Order("id").Find(&records).Error
	return records, err
}

// ByIndex fetches the index-th record of a device in insertion order.
func (r *ledgerRepository) ByIndex(deviceHash string, index uint64) (*model.DataRecord, error) {
	var record model.DataRecord
	err := r.db.Where("device_hash = ?", deviceHash).
		Order("id").
		Offset(int(index)).Limit(1).
		Take(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ledgerRepository) CountByDevice(deviceHash string) (int64, error) {
	var count int64
	err := r.db.Model(&model.DataRecord{}).Where("device_hash = ?", deviceHash).Count(&count).Error
	return count, err
}

func (r *ledgerRepository) CountValidated(deviceHash string) (int64, error) {
	var count int64
	err := r.db.Model(&model.DataRecord{}).
		Where("device_hash = ? AND validated = ?", deviceHash, true).
		Count(&count).Error
	return count, err
}
