package repository

import (
	"errors"

	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type RewardsRepository interface {
	Config() (*model.RewardConfig, error)
	SaveConfig(cfg *model.RewardConfig) error
	Balance(account string) (uint64, error)
	AddBalance(account string, amount uint64) error
	SubBalance(account string, amount uint64) error
	Claimed(deviceHash, account string) (uint64, error)
	AddClaimed(deviceHash, account string, amount uint64) error
	Slashed(account string) (uint64, error)
	AddSlashed(account string, amount uint64) error
}

type rewardsRepository struct {
	db *gorm.DB
}

func NewRewardsRepository(db *gorm.DB) RewardsRepository {
	return &rewardsRepository{db}
}

// Config returns the singleton reward configuration, creating it with
// defaults on first access.
func (r *rewardsRepository) Config() (*model.RewardConfig, error) {
	var cfg model.RewardConfig
	err := r.db.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.RewardConfig{
			RewardRate:      model.DefaultRewardRate,
			SlashPercentage: model.DefaultSlashPercentage,
		}
		if err := r.db.Create(&cfg).Error; err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *rewardsRepository) SaveConfig(cfg *model.RewardConfig) error {
	return r.db.Save(cfg).Error
}

func (r *rewardsRepository) Balance(account string) (uint64, error) {
	var row model.Balance
	err := r.db.Where("account = ?", account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func (r *rewardsRepository) AddBalance(account string, amount uint64) error {
	var row model.Balance
	err := r.db.Where("account = ?", account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&model.Balance{Account: account, Amount: amount}).Error
	}
	if err != nil {
		return err
	}
	row.Amount += amount
	return r.db.Save(&row).Error
}

func (r *rewardsRepository) SubBalance(account string, amount uint64) error {
	var row model.Balance
	if err := r.db.Where("account = ?", account).First(&row).Error; err != nil {
		return err
	}
	if row.Amount < amount {
		return gorm.ErrInvalidData
	}
	row.Amount -= amount
	return r.db.Save(&row).Error
}

func (r *rewardsRepository) Claimed(deviceHash, account string) (uint64, error) {
	var row model.ClaimedReward
	err := r.db.Where("device_hash = ? AND account = ?", deviceHash, account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func (r *rewardsRepository) AddClaimed(deviceHash, account string, amount uint64) error {
	var row model.ClaimedReward
	err := r.db.Where("device_hash = ? AND account = ?", deviceHash, account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&model.ClaimedReward{DeviceHash: deviceHash, Account: account, Amount: amount}).Error
	}
	if err != nil {
		return err
	}
	row.Amount += amount
	return r.db.Save(&row).Error
}

func (r *rewardsRepository) Slashed(account string) (uint64, error) {
	var row model.SlashedBalance
	err := r.db.Where("account = ?", account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func (r *rewardsRepository) AddSlashed(account string, amount uint64) error {
	var row model.SlashedBalance
	err := r.db.Where("account = ?", account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&model.SlashedBalance{Account: account, Amount: amount}).Error
	}
	if err != nil {
		return err
	}
	row.Amount += amount
	return r.db.Save(&row).Error
}
