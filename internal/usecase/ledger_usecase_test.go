package usecase

import (
	"sync"
	"testing"
	"time"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

func newLedger(t *testing.T, db *gorm.DB) *LedgerUsecase {
	t.Helper()
	return NewLedgerUsecase(db, events.NewNoop())
}

func TestRecordRequiresActiveDevice(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)

	// Unregistered device.
	if _, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature"); err != ErrInvalidDevice {
		t.Fatalf("expected ErrInvalidDevice, got %v", err)
	}

	registerTestDevice(t, registry, testOwner)
	if _, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature"); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Suspended device rejects new data.
	if err := registry.UpdateStatus(testManager, testDeviceHash, model.DeviceSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature"); err != ErrInvalidDevice {
		t.Fatalf("expected ErrInvalidDevice for suspended device, got %v", err)
	}
}

func TestRecordAuthorization(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	// Neither owner nor data manager.
	if _, err := ledger.Record(testOther, testDeviceHash, testDataHash, "temperature"); err != ErrUnauthorizedAccess {
		t.Fatalf("expected ErrUnauthorizedAccess, got %v", err)
	}

	// Data manager may record against any active device.
	if _, err := ledger.Record(testDataMgr, testDeviceHash, testDataHash, "temperature"); err != nil {
		t.Fatalf("data manager record: %v", err)
	}
}

func TestRecordRejectsZeroHashes(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	if _, err := ledger.Record(testOwner, testDeviceHash, "", "temperature"); err != ErrInvalidData {
		t.Fatalf("empty data hash: expected ErrInvalidData, got %v", err)
	}
	if _, err := ledger.Record(testOwner, testDeviceHash, common.Hash{}.Hex(), "temperature"); err != ErrInvalidData {
		t.Fatalf("zero data hash: expected ErrInvalidData, got %v", err)
	}
	if _, err := ledger.Record(testOwner, testDeviceHash, testDataHash, ""); err != ErrInvalidData {
		t.Fatalf("empty data type: expected ErrInvalidData, got %v", err)
	}
}

func TestBatchRecordAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	_, err := ledger.BatchRecord(testOwner, testDeviceHash,
		[]string{testDataHash}, []string{"temperature", "humidity"})
	if err != ErrInvalidData {
		t.Fatalf("length mismatch: expected ErrInvalidData, got %v", err)
	}

	// Second entry invalid: nothing is appended.
	_, err = ledger.BatchRecord(testOwner, testDeviceHash,
		[]string{testDataHash, ""}, []string{"temperature", "humidity"})
	if err != ErrInvalidData {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
	records, _ := ledger.Records(testDeviceHash, 0, 10)
	if len(records) != 0 {
		t.Fatalf("expected rollback, found %d records", len(records))
	}

	made, err := ledger.BatchRecord(testOwner, testDeviceHash,
		[]string{testDataHash, testDataHash}, []string{"temperature", "humidity"})
	if err != nil || len(made) != 2 {
		t.Fatalf("batch record: got %d records, err=%v", len(made), err)
	}
}

func TestValidateFlowAndCounterInvariant(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	record, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// Only data managers validate.
	if _, err := ledger.Validate(testOwner, testDeviceHash, record.RecordedAt); err != ErrNotDataManager {
		t.Fatalf("expected ErrNotDataManager, got %v", err)
	}

	// No record at that timestamp.
	if _, err := ledger.Validate(testDataMgr, testDeviceHash, record.RecordedAt+999); err != ErrInvalidData {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}

	validated, err := ledger.Validate(testDataMgr, testDeviceHash, record.RecordedAt)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !validated.Validated || validated.Validator != testDataMgr {
		t.Fatalf("record not marked validated by caller: %+v", validated)
	}

	// Double validation.
	if _, err := ledger.Validate(testDataMgr, testDeviceHash, record.RecordedAt); err != ErrAlreadyValidated {
		t.Fatalf("expected ErrAlreadyValidated, got %v", err)
	}

	// Counter == number of validated records.
	count, err := ledger.ValidationCount(testDeviceHash)
	if err != nil || count != 1 {
		t.Fatalf("expected validation count 1, got %d err=%v", count, err)
	}
	validatedRows, err := ledger.records.CountValidated(testDeviceHash)
	if err != nil {
		t.Fatalf("count validated: %v", err)
	}
	if uint64(validatedRows) != count {
		t.Fatalf("counter %d != validated rows %d", count, validatedRows)
	}
}

// Concurrent validations of one record must produce exactly one success and
// one counter increment.
func TestConcurrentValidationIncrementsOnce(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	record, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Validate(testDataMgr, testDeviceHash, record.RecordedAt)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch err {
		case nil:
			succeeded++
		case ErrAlreadyValidated:
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful validation, got %d", succeeded)
	}

	count, err := ledger.ValidationCount(testDeviceHash)
	if err != nil || count != 1 {
		t.Fatalf("expected validation count 1, got %d err=%v", count, err)
	}
	validatedRows, err := ledger.records.CountValidated(testDeviceHash)
	if err != nil || validatedRows != 1 {
		t.Fatalf("expected 1 validated row, got %d err=%v", validatedRows, err)
	}
}

// Two records in the same second are indistinguishable to the timestamp
// lookup: the first one wins. Documented boundary behavior, not a bug fix.
func TestValidateDuplicateTimestampFirstMatchWins(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	fixed := time.Unix(1700000000, 0)
	ledger.now = func() time.Time { return fixed }

	first, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature")
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "humidity")
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if first.RecordedAt != second.RecordedAt {
		t.Fatalf("fixture broken: timestamps differ")
	}

	validated, err := ledger.Validate(testDataMgr, testDeviceHash, fixed.Unix())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if validated.ID != first.ID {
		t.Fatalf("expected first record validated, got id %d", validated.ID)
	}

	// The second record is now unreachable through this key until the first
	// is consumed; a second call reports the first as already validated.
	if _, err := ledger.Validate(testDataMgr, testDeviceHash, fixed.Unix()); err != ErrAlreadyValidated {
		t.Fatalf("expected ErrAlreadyValidated, got %v", err)
	}
}

func TestRecordsPagination(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	for i := 0; i < 5; i++ {
		if _, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature"); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	window, err := ledger.Records(testDeviceHash, 3, 10)
	if err != nil || len(window) != 2 {
		t.Fatalf("window [3,∞): got %d, err=%v", len(window), err)
	}
	past, err := ledger.Records(testDeviceHash, 10, 5)
	if err != nil || len(past) != 0 {
		t.Fatalf("past-end window: got %d, err=%v", len(past), err)
	}
}

func TestLedgerPause(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	registry := newRegistry(t, db)
	ledger := newLedger(t, db)
	registerTestDevice(t, registry, testOwner)

	record, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := ledger.SetPaused(testAdmin, true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := ledger.Record(testOwner, testDeviceHash, testDataHash, "temperature"); err != ErrPaused {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	if _, err := ledger.Validate(testDataMgr, testDeviceHash, record.RecordedAt); err != ErrPaused {
		t.Fatalf("expected ErrPaused on validate, got %v", err)
	}

	// Reads survive the pause.
	if _, err := ledger.Records(testDeviceHash, 0, 10); err != nil {
		t.Fatalf("read while paused: %v", err)
	}
}
