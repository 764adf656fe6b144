package model

import "gorm.io/gorm"

// Reward amounts are fixed-point integers with 6 decimal places:
// 1_000_000 units == 1 token.
const TokenDecimals = 6

const (
	DefaultRewardRate      uint64 = 1_000_000 // 1 token per validated record
	DefaultSlashPercentage uint64 = 10
)

// RewardConfig is the global singleton row holding the reward parameters.
// Mutated only by the global admin role.
type RewardConfig struct {
	gorm.Model
	RewardRate      uint64 `json:"reward_rate"`
	SlashPercentage uint64 `json:"slash_percentage"` // bounded to [0,100]
}

type Balance struct {
	gorm.Model
	Account string `json:"account" gorm:"uniqueIndex;not null"`
	Amount  uint64 `json:"amount" gorm:"default:0"`
}

// ClaimedReward records, per (device, claimant), the cumulative amount
// already minted. Monotonically non-decreasing; prevents double claims.
type ClaimedReward struct {
	gorm.Model
	DeviceHash string `json:"device_hash" gorm:"uniqueIndex:idx_claim_key;not null"`
	Account    string `json:"account" gorm:"uniqueIndex:idx_claim_key;not null"`
	Amount     uint64 `json:"amount" gorm:"default:0"`
}

// SlashedBalance is the append-only counter of amounts burned from an
// operator. Not an escrow; never refunded or transferred.
type SlashedBalance struct {
	gorm.Model
	Account string `json:"account" gorm:"uniqueIndex;not null"`
	Amount  uint64 `json:"amount" gorm:"default:0"`
}
