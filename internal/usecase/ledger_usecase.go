package usecase

import (
	"sync"
	"time"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

var zeroHash = common.Hash{}.Hex()

// LedgerUsecase appends data records against active devices and tracks
// validations. Records are append-only; the per-device validation counter
// always equals the number of validated rows.
type LedgerUsecase struct {
	db *gorm.DB

	// mu serializes validations. The lookup and the validated check must not
	// interleave across callers or the counter drifts from the row count.
	mu sync.Mutex

	devices   repository.DeviceRepository
	records   repository.LedgerRepository
	roles     repository.RoleRepository
	auditLog  repository.EventRepository
	pause     repository.PauseRepository
	publisher events.Publisher

	// Test seam: lets tests pin record timestamps. Defaults to time.Now.
	now func() time.Time
}

func NewLedgerUsecase(db *gorm.DB, publisher events.Publisher) *LedgerUsecase {
	return &LedgerUsecase{
		db:        db,
		devices:   repository.NewDeviceRepository(db),
		records:   repository.NewLedgerRepository(db),
		roles:     repository.NewRoleRepository(db),
		auditLog:  repository.NewEventRepository(db),
		pause:     repository.NewPauseRepository(db),
		publisher: publisher,
		now:       time.Now,
	}
}

// Record appends one data record. The device must be Active and the caller
// must be its owner or hold the data manager role.
func (u *LedgerUsecase) Record(caller, deviceHash, dataHash, dataType string) (*model.DataRecord, error) {
	var record *model.DataRecord
	err := u.db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = u.appendRecord(tx, caller, deviceHash, dataHash, dataType)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(model.EventDataRecorded, record)
	return record, nil
}

// BatchRecord appends several records against one device, all-or-nothing.
func (u *LedgerUsecase) BatchRecord(caller, deviceHash string, dataHashes, dataTypes []string) ([]model.DataRecord, error) {
	if len(dataHashes) != len(dataTypes) {
		return nil, ErrInvalidData
	}
	var out []model.DataRecord
	err := u.db.Transaction(func(tx *gorm.DB) error {
		for i := range dataHashes {
			record, err := u.appendRecord(tx, caller, deviceHash, dataHashes[i], dataTypes[i])
			if err != nil {
				return err
			}
			out = append(out, *record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		u.publisher.Publish(model.EventDataRecorded, &out[i])
	}
	return out, nil
}

func (u *LedgerUsecase) appendRecord(tx *gorm.DB, caller, deviceHash, dataHash, dataType string) (*model.DataRecord, error) {
	if paused, err := repository.NewPauseRepository(tx).IsPaused(model.PauseLedger); err != nil {
		return nil, err
	} else if paused {
		return nil, ErrPaused
	}

	device, err := repository.NewDeviceRepository(tx).GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return nil, ErrInvalidDevice
	}
	if err != nil {
		return nil, err
	}
	if device.Status != model.DeviceActive {
		return nil, ErrInvalidDevice
	}

	if device.Owner != caller {
		ok, err := repository.NewRoleRepository(tx).Has(model.RoleDataManager, caller)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnauthorizedAccess
		}
	}

	// Both hash fields must be non-zero.
	if dataHash == "" || dataType == "" || common.HexToHash(dataHash).Hex() == zeroHash {
		return nil, ErrInvalidData
	}

	record := &model.DataRecord{
		DeviceHash: device.DeviceHash,
		DataHash:   common.HexToHash(dataHash).Hex(),
		DataType:   dataType,
		RecordedAt: u.now().Unix(),
	}
	if err := repository.NewLedgerRepository(tx).Append(record); err != nil {
		return nil, err
	}
	if err := repository.NewEventRepository(tx).Append(model.EventDataRecorded, device.DeviceHash, caller, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Validate marks the first record matching the timestamp as validated by the
// caller. Timestamp is a lookup key, not an index: with two records in the
// same second the first one wins.
func (u *LedgerUsecase) Validate(caller, deviceHash string, timestamp int64) (*model.DataRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var record *model.DataRecord
	err := u.db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = u.validate(tx, caller, deviceHash, timestamp)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(model.EventDataValidated, record)
	return record, nil
}

// validate runs the whole validation inside the given transaction. The scan
// and the validated re-check read through tx, so a concurrent validation of
// the same record rolls back instead of double-incrementing the counter.
func (u *LedgerUsecase) validate(tx *gorm.DB, caller, deviceHash string, timestamp int64) (*model.DataRecord, error) {
	ok, err := repository.NewRoleRepository(tx).Has(model.RoleDataManager, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotDataManager
	}
	if paused, err := repository.NewPauseRepository(tx).IsPaused(model.PauseLedger); err != nil {
		return nil, err
	} else if paused {
		return nil, ErrPaused
	}

	hash := common.HexToHash(deviceHash).Hex()
	records, err := repository.NewLedgerRepository(tx).ByDeviceAll(hash)
	if err != nil {
		return nil, err
	}

	var match *model.DataRecord
	for i := range records {
		if records[i].RecordedAt == timestamp {
			match = &records[i]
			break
		}
	}
	if match == nil {
		return nil, ErrInvalidData
	}
	if match.Validated {
		return nil, ErrAlreadyValidated
	}

	match.Validated = true
	match.Validator = caller
	if err := repository.NewLedgerRepository(tx).Save(match); err != nil {
		return nil, err
	}
	devices := repository.NewDeviceRepository(tx)
	device, err := devices.GetByHash(hash)
	if err != nil {
		return nil, err
	}
	device.ValidationCount++
	if err := devices.Save(device); err != nil {
		return nil, err
	}
	if err := repository.NewEventRepository(tx).Append(model.EventDataValidated, hash, caller, match); err != nil {
		return nil, err
	}
	return match, nil
}

// Records windows a device's record sequence, same policy as device pagination.
func (u *LedgerUsecase) Records(deviceHash string, start, count int) ([]model.DataRecord, error) {
	if start < 0 || count <= 0 {
		return []model.DataRecord{}, nil
	}
	records, err := u.records.ByDevice(common.HexToHash(deviceHash).Hex(), start, count)
	if records == nil {
		records = []model.DataRecord{}
	}
	return records, err
}

func (u *LedgerUsecase) RecordCount(deviceHash string) (int64, error) {
	return u.records.CountByDevice(common.HexToHash(deviceHash).Hex())
}

// ValidationCount is the O(1) counter read; it never rescans records.
func (u *LedgerUsecase) ValidationCount(deviceHash string) (uint64, error) {
	device, err := u.devices.GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return 0, ErrDeviceNotFound
	}
	if err != nil {
		return 0, err
	}
	return device.ValidationCount, nil
}

// SetPaused is the ledger kill-switch.
func (u *LedgerUsecase) SetPaused(caller string, paused bool) error {
	ok, err := u.roles.Has(model.RoleGlobalAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return u.pause.SetPaused(model.PauseLedger, paused)
}
