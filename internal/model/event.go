package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types emitted by the mutation paths. The events table is the only
// append-only audit log; indexers and UIs reconstruct state from it.
const (
	EventDeviceRegistered     = "DeviceRegistered"
	EventDeviceStatusChanged  = "DeviceStatusChanged"
	EventOwnershipTransferred = "OwnershipTransferred"
	EventDataRecorded         = "DataRecorded"
	EventDataValidated        = "DataValidated"
	EventRewardsClaimed       = "RewardsClaimed"
	EventRewardsSlashed       = "RewardsSlashed"
	EventTokensTransferred    = "TokensTransferred"
	EventVerificationRequest  = "VerificationRequested"
	EventVerificationComplete = "VerificationCompleted"
	EventDisputeResolved      = "DisputeResolved"
	EventRoleGranted          = "RoleGranted"
	EventRoleRevoked          = "RoleRevoked"
)

type Event struct {
	gorm.Model
	EventID    string         `json:"event_id" gorm:"uniqueIndex;not null"` // stable id for external consumers
	Type       string         `json:"type" gorm:"index;not null"`
	DeviceHash string         `json:"device_hash" gorm:"index"`
	Actor      string         `json:"actor"`
	Payload    datatypes.JSON `json:"payload"`
}
