package usecase

import (
	"math"
	"testing"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"

	"gorm.io/gorm"
)

func newRewards(t *testing.T, db *gorm.DB) *RewardsUsecase {
	t.Helper()
	return NewRewardsUsecase(db, events.NewNoop())
}

// Validates a number of records against the fixture device so claims have
// something to mint against.
func validateRecords(t *testing.T, ledger *LedgerUsecase, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		record, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature")
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		// Pin distinct timestamps so each validation hits its own record.
		record.RecordedAt = int64(1700000000 + i)
		if err := ledger.records.Save(record); err != nil {
			t.Fatalf("pin timestamp: %v", err)
		}
		if _, err := ledger.Validate(testDataMgr, testDeviceHash, record.RecordedAt); err != nil {
			t.Fatalf("validate %d: %v", i, err)
		}
	}
}

func TestClaimMintsPerValidation(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	rewards := newRewards(t, db)
	registerTestDevice(t, registry, testOwner)

	// Nothing validated yet.
	if _, err := rewards.Claim(testOwner, testDeviceHash); err != ErrNoRewardsAvailable {
		t.Fatalf("expected ErrNoRewardsAvailable, got %v", err)
	}

	validateRecords(t, ledger, 1)

	amount, err := rewards.Claim(testOwner, testDeviceHash)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if amount != model.DefaultRewardRate {
		t.Fatalf("expected %d claimed, got %d", model.DefaultRewardRate, amount)
	}
	balance, err := rewards.BalanceOf(testOwner)
	if err != nil || balance != model.DefaultRewardRate {
		t.Fatalf("expected balance %d, got %d err=%v", model.DefaultRewardRate, balance, err)
	}

	// Immediate re-claim finds nothing new.
	if _, err := rewards.Claim(testOwner, testDeviceHash); err != ErrNoRewardsAvailable {
		t.Fatalf("expected ErrNoRewardsAvailable on re-claim, got %v", err)
	}

	// Another validation unlocks exactly one more rate unit.
	validateRecords(t, ledger, 1)
	amount, err = rewards.Claim(testOwner, testDeviceHash)
	if err != nil || amount != model.DefaultRewardRate {
		t.Fatalf("incremental claim: got %d err=%v", amount, err)
	}
}

func TestClaimUnknownDevice(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	rewards := newRewards(t, db)

	if _, err := rewards.Claim(testOwner, testDeviceHash); err != ErrDeviceNotFound {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

// A rate change applies to the whole validation count, netted against what
// was already claimed: claimable = count*rate - claimed.
func TestClaimAfterRateChange(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	rewards := newRewards(t, db)
	registerTestDevice(t, registry, testOwner)

	validateRecords(t, ledger, 1)
	if _, err := rewards.Claim(testOwner, testDeviceHash); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	newRate := 2 * model.DefaultRewardRate
	if err := rewards.SetRewardRate(testAdmin, newRate); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	validateRecords(t, ledger, 1)
	amount, err := rewards.Claim(testOwner, testDeviceHash)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	// 2 validations * new rate, minus the 1 old-rate unit already claimed.
	want := 2*newRate - model.DefaultRewardRate
	if amount != want {
		t.Fatalf("expected %d, got %d", want, amount)
	}
}

// validationCount*rewardRate exceeding uint64 must abort, not wrap around.
func TestClaimOverflowAborts(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	rewards := newRewards(t, db)

	device := registerTestDevice(t, registry, testOwner)
	device.ValidationCount = 3
	if err := repository.NewDeviceRepository(db).Save(device); err != nil {
		t.Fatalf("save device: %v", err)
	}
	if err := rewards.SetRewardRate(testAdmin, math.MaxUint64/2); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	if _, err := rewards.Claim(testOwner, testDeviceHash); err != ErrAmountOverflow {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
	if balance, _ := rewards.BalanceOf(testOwner); balance != 0 {
		t.Fatalf("overflowing claim minted %d", balance)
	}
}

// balance*percentage overflows uint64 for extreme balances; the burn amount
// must still come out exact.
func TestSlashMaxBalance(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	rewards := newRewards(t, db)

	if err := repository.NewRewardsRepository(db).AddBalance(testOther, math.MaxUint64); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	burned, err := rewards.Slash(testOracle, testDeviceHash, testOther)
	if err != nil {
		t.Fatalf("slash: %v", err)
	}
	want := uint64(math.MaxUint64) / 10
	if burned != want {
		t.Fatalf("expected %d burned, got %d", want, burned)
	}
	after, _ := rewards.BalanceOf(testOther)
	if after != math.MaxUint64-want {
		t.Fatalf("expected balance %d, got %d", uint64(math.MaxUint64)-want, after)
	}
}

func TestSlashBurnsPercentage(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	rewards := newRewards(t, db)
	registerTestDevice(t, registry, testOwner)
	validateRecords(t, ledger, 10)

	if _, err := rewards.Claim(testOwner, testDeviceHash); err != nil {
		t.Fatalf("claim: %v", err)
	}
	balance, _ := rewards.BalanceOf(testOwner)

	// Oracle role only.
	if _, err := rewards.Slash(testOther, testDeviceHash, testOwner); err != ErrNotOracle {
		t.Fatalf("expected ErrNotOracle, got %v", err)
	}

	burned, err := rewards.Slash(testOracle, testDeviceHash, testOwner)
	if err != nil {
		t.Fatalf("slash: %v", err)
	}
	want := balance * model.DefaultSlashPercentage / 100
	if burned != want {
		t.Fatalf("expected %d burned, got %d", want, burned)
	}
	after, _ := rewards.BalanceOf(testOwner)
	if after != balance-want {
		t.Fatalf("expected balance %d, got %d", balance-want, after)
	}
	slashed, _ := rewards.SlashedOf(testOwner)
	if slashed != want {
		t.Fatalf("expected slashed ledger %d, got %d", want, slashed)
	}
}

func TestSlashZeroBalanceIsRecorded(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	rewards := newRewards(t, db)

	burned, err := rewards.Slash(testOracle, testDeviceHash, testOther)
	if err != nil {
		t.Fatalf("slash with empty balance: %v", err)
	}
	if burned != 0 {
		t.Fatalf("expected zero burned, got %d", burned)
	}
}

func TestSlashPercentageBounds(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	rewards := newRewards(t, db)

	if err := rewards.SetSlashPercentage(testAdmin, 101); err != ErrInvalidPercentage {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
	if err := rewards.SetSlashPercentage(testAdmin, 100); err != nil {
		t.Fatalf("100%% should be allowed: %v", err)
	}
	if err := rewards.SetSlashPercentage(testOther, 50); err != ErrNotAdmin {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if err := rewards.SetRewardRate(testOther, 1); err != ErrNotAdmin {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	rewards := newRewards(t, db)
	registerTestDevice(t, registry, testOwner)
	validateRecords(t, ledger, 2)

	if _, err := rewards.Claim(testOwner, testDeviceHash); err != nil {
		t.Fatalf("claim: %v", err)
	}
	balance, _ := rewards.BalanceOf(testOwner)

	if err := rewards.Transfer(testOwner, testOther, balance+1); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if err := rewards.Transfer(testOwner, testOther, balance/2); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	from, _ := rewards.BalanceOf(testOwner)
	to, _ := rewards.BalanceOf(testOther)
	if from != balance-balance/2 || to != balance/2 {
		t.Fatalf("balances after transfer: from=%d to=%d", from, to)
	}
}
