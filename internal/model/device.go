package model

import "gorm.io/gorm"

type DeviceStatus string

const (
	DeviceActive    DeviceStatus = "active"
	DeviceSuspended DeviceStatus = "suspended"
	DeviceRetired   DeviceStatus = "retired" // terminal
)

// MaxFieldBytes bounds every free-text device field.
const MaxFieldBytes = 64

type Device struct {
	gorm.Model
	DeviceHash   string       `json:"device_hash" gorm:"uniqueIndex;not null"` // content-derived 0x… identifier
	Owner        string       `json:"owner" gorm:"index;not null"`
	Status       DeviceStatus `json:"status" gorm:"default:'active'"`
	DeviceType   string       `json:"device_type"`
	Manufacturer string       `json:"manufacturer"`
	ModelName    string       `json:"model" gorm:"column:model_name"`
	Location     string       `json:"location"`

	// Count of validated records for this device. Kept in lockstep with the
	// data_records table so reads stay O(1).
	ValidationCount uint64 `json:"validation_count" gorm:"default:0"`
}

// DeviceTypeCount tracks how many devices of each type have been registered.
type DeviceTypeCount struct {
	gorm.Model
	DeviceType string `json:"device_type" gorm:"uniqueIndex;not null"`
	Count      uint64 `json:"count" gorm:"default:0"`
}

// PauseFlag is a named kill-switch. Mutations check it, reads do not.
type PauseFlag struct {
	gorm.Model
	Name   string `json:"name" gorm:"uniqueIndex;not null"` // "registry" or "ledger"
	Paused bool   `json:"paused" gorm:"default:false"`
}

const (
	PauseRegistry = "registry"
	PauseLedger   = "ledger"
)
