package usecase

import (
	"math/bits"
	"sync"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// RewardsUsecase is the token ledger: claims mint against a device's
// validation count, slashing burns a percentage of an operator's balance.
// A single mutex serializes claim/slash/transfer, the off-chain analogue of
// the contracts' reentrancy guard.
type RewardsUsecase struct {
	db        *gorm.DB
	mu        sync.Mutex
	devices   repository.DeviceRepository
	rewards   repository.RewardsRepository
	roles     repository.RoleRepository
	auditLog  repository.EventRepository
	publisher events.Publisher
}

func NewRewardsUsecase(db *gorm.DB, publisher events.Publisher) *RewardsUsecase {
	return &RewardsUsecase{
		db:        db,
		devices:   repository.NewDeviceRepository(db),
		rewards:   repository.NewRewardsRepository(db),
		roles:     repository.NewRoleRepository(db),
		auditLog:  repository.NewEventRepository(db),
		publisher: publisher,
	}
}

// Claim mints validationCount*rewardRate minus what this caller already
// claimed for the device. Deliberately not scoped to records the caller
// contributed: the claimable amount is driven purely by total validations.
func (u *RewardsUsecase) Claim(caller, deviceHash string) (uint64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	device, err := u.devices.GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return 0, ErrDeviceNotFound
	}
	if err != nil {
		return 0, err
	}

	cfg, err := u.rewards.Config()
	if err != nil {
		return 0, err
	}
	claimed, err := u.rewards.Claimed(device.DeviceHash, caller)
	if err != nil {
		return 0, err
	}

	hi, total := bits.Mul64(device.ValidationCount, cfg.RewardRate)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	if total <= claimed {
		return 0, ErrNoRewardsAvailable
	}
	claimable := total - claimed

	err = u.db.Transaction(func(tx *gorm.DB) error {
		rewards := repository.NewRewardsRepository(tx)
		if err := rewards.AddBalance(caller, claimable); err != nil {
			return err
		}
		if err := rewards.AddClaimed(device.DeviceHash, caller, claimable); err != nil {
			return err
		}
		payload := map[string]any{"device_hash": device.DeviceHash, "account": caller, "amount": claimable}
		return repository.NewEventRepository(tx).Append(model.EventRewardsClaimed, device.DeviceHash, caller, payload)
	})
	if err != nil {
		return 0, err
	}
	u.publisher.Publish(model.EventRewardsClaimed, map[string]any{
		"device_hash": device.DeviceHash, "account": caller, "amount": claimable,
	})
	return claimable, nil
}

// Slash burns min(balance*slashPercentage/100, balance) from the operator
// and credits the append-only slashed ledger. Oracle role only.
func (u *RewardsUsecase) Slash(caller, deviceHash, operator string) (uint64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	deviceHash = common.HexToHash(deviceHash).Hex()
	operator = common.HexToAddress(operator).Hex()

	var amount uint64
	err := u.db.Transaction(func(tx *gorm.DB) error {
		var err error
		amount, err = u.slash(tx, caller, deviceHash, operator)
		return err
	})
	if err != nil {
		return 0, err
	}
	u.publisher.Publish(model.EventRewardsSlashed, map[string]any{
		"device_hash": deviceHash, "operator": operator, "amount": amount,
	})
	return amount, nil
}

// slash runs the whole burn inside the given transaction; expects canonical
// deviceHash and operator.
func (u *RewardsUsecase) slash(tx *gorm.DB, caller, deviceHash, operator string) (uint64, error) {
	ok, err := repository.NewRoleRepository(tx).Has(model.RoleOracle, caller)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotOracle
	}

	rewards := repository.NewRewardsRepository(tx)
	cfg, err := rewards.Config()
	if err != nil {
		return 0, err
	}
	balance, err := rewards.Balance(operator)
	if err != nil {
		return 0, err
	}

	// 128-bit intermediate: balance*percentage can exceed uint64, the final
	// amount never does since percentage is bounded to 100.
	hi, lo := bits.Mul64(balance, cfg.SlashPercentage)
	var amount uint64
	if hi == 0 {
		amount = lo / 100
	} else {
		amount, _ = bits.Div64(hi, lo, 100)
	}
	if amount > balance {
		amount = balance
	}

	if amount > 0 {
		if err := rewards.SubBalance(operator, amount); err != nil {
			return 0, err
		}
	}
	if err := rewards.AddSlashed(operator, amount); err != nil {
		return 0, err
	}
	payload := map[string]any{"device_hash": deviceHash, "operator": operator, "amount": amount}
	if err := repository.NewEventRepository(tx).Append(model.EventRewardsSlashed, deviceHash, caller, payload); err != nil {
		return 0, err
	}
	return amount, nil
}

// Transfer moves tokens between accounts, standard ledger semantics.
func (u *RewardsUsecase) Transfer(caller, to string, amount uint64) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	to = common.HexToAddress(to).Hex()
	balance, err := u.rewards.Balance(caller)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}

	err = u.db.Transaction(func(tx *gorm.DB) error {
		rewards := repository.NewRewardsRepository(tx)
		if err := rewards.SubBalance(caller, amount); err != nil {
			return err
		}
		if err := rewards.AddBalance(to, amount); err != nil {
			return err
		}
		payload := map[string]any{"from": caller, "to": to, "amount": amount}
		return repository.NewEventRepository(tx).Append(model.EventTokensTransferred, "", caller, payload)
	})
	if err != nil {
		return err
	}
	u.publisher.Publish(model.EventTokensTransferred, map[string]any{"from": caller, "to": to, "amount": amount})
	return nil
}

func (u *RewardsUsecase) BalanceOf(account string) (uint64, error) {
	return u.rewards.Balance(common.HexToAddress(account).Hex())
}

func (u *RewardsUsecase) SlashedOf(account string) (uint64, error) {
	return u.rewards.Slashed(common.HexToAddress(account).Hex())
}

func (u *RewardsUsecase) Claimed(deviceHash, account string) (uint64, error) {
	return u.rewards.Claimed(common.HexToHash(deviceHash).Hex(), common.HexToAddress(account).Hex())
}

func (u *RewardsUsecase) Config() (*model.RewardConfig, error) {
	return u.rewards.Config()
}

// SetRewardRate changes the per-validation mint amount for subsequent claims.
func (u *RewardsUsecase) SetRewardRate(caller string, rate uint64) error {
	ok, err := u.roles.Has(model.RoleGlobalAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	cfg, err := u.rewards.Config()
	if err != nil {
		return err
	}
	cfg.RewardRate = rate
	return u.rewards.SaveConfig(cfg)
}

func (u *RewardsUsecase) SetSlashPercentage(caller string, percentage uint64) error {
	ok, err := u.roles.Has(model.RoleGlobalAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	if percentage > 100 {
		return ErrInvalidPercentage
	}
	cfg, err := u.rewards.Config()
	if err != nil {
		return err
	}
	cfg.SlashPercentage = percentage
	return u.rewards.SaveConfig(cfg)
}
