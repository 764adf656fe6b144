package model

import "gorm.io/gorm"

// DataRecord is one append-only measurement reported against a device.
// Records are never deleted; the only mutation ever applied is flipping
// Validated and setting Validator, exactly once.
type DataRecord struct {
	gorm.Model
	DeviceHash string `json:"device_hash" gorm:"index;not null"`
	DataHash   string `json:"data_hash" gorm:"not null"`
	DataType   string `json:"data_type" gorm:"not null"`
	RecordedAt int64  `json:"recorded_at" gorm:"index"` // unix seconds; the validation lookup key
	Validator  string `json:"validator"`                // empty until validated
	Validated  bool   `json:"validated" gorm:"default:false"`
}
