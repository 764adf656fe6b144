package model

import "gorm.io/gorm"

// VerificationRequest tracks one dispute over a (device, record) pair.
// Lifecycle: none -> requested -> resolved. Resolution happens exactly once,
// either by the oracle callback or by the admin timeout override.
type VerificationRequest struct {
	gorm.Model
	RequestID   string `json:"request_id" gorm:"uniqueIndex;not null"` // keccak256(deviceHash ‖ recordIndex)
	DeviceHash  string `json:"device_hash" gorm:"index;not null"`
	RecordIndex uint64 `json:"record_index"`
	Disputer    string `json:"disputer" gorm:"not null"`
	ExternalAPI string `json:"external_api"`
	Resolved    bool   `json:"resolved" gorm:"default:false"`
	Valid       bool   `json:"valid" gorm:"default:false"` // outcome, meaningful once Resolved
}
