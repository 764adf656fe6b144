package usecase

import (
	"encoding/hex"
	"strings"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"
	"iot-ledger-backend/internal/signature"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// RegistryUsecase drives the per-device lifecycle:
// unregistered -> Active -> {Suspended, Retired}, with Active <-> Suspended
// manager-driven and Retired terminal.
type RegistryUsecase struct {
	db        *gorm.DB
	devices   repository.DeviceRepository
	roles     repository.RoleRepository
	auditLog  repository.EventRepository
	pause     repository.PauseRepository
	domain    signature.Domain
	publisher events.Publisher
}

func NewRegistryUsecase(db *gorm.DB, domain signature.Domain, publisher events.Publisher) *RegistryUsecase {
	return &RegistryUsecase{
		db:        db,
		devices:   repository.NewDeviceRepository(db),
		roles:     repository.NewRoleRepository(db),
		auditLog:  repository.NewEventRepository(db),
		pause:     repository.NewPauseRepository(db),
		domain:    domain,
		publisher: publisher,
	}
}

type RegisterInput struct {
	DeviceHash   string `json:"device_hash"`
	DeviceType   string `json:"device_type"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Location     string `json:"location"`
	Signature    string `json:"signature"` // optional hex-encoded EIP-712 signature by a device manager
}

// Register stores a new device owned by the caller. A non-empty signature
// must be a valid device-manager co-signature over the registration fields.
func (u *RegistryUsecase) Register(caller string, in RegisterInput) (*model.Device, error) {
	if paused, err := u.pause.IsPaused(model.PauseRegistry); err != nil {
		return nil, err
	} else if paused {
		return nil, ErrPaused
	}

	if in.DeviceType == "" {
		return nil, ErrInvalidDeviceType
	}
	for _, field := range []string{in.DeviceType, in.Manufacturer, in.Model, in.Location} {
		if len(field) > model.MaxFieldBytes {
			return nil, ErrInvalidDeviceType
		}
	}

	hash := common.HexToHash(in.DeviceHash)
	if _, err := u.devices.GetByHash(hash.Hex()); err == nil {
		return nil, ErrDeviceExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if in.Signature != "" {
		sig, err := hex.DecodeString(strings.TrimPrefix(in.Signature, "0x"))
		if err != nil {
			return nil, ErrInvalidSignature
		}
		signer, err := u.domain.Recover(signature.Registration{
			DeviceHash:   hash,
			DeviceType:   in.DeviceType,
			Manufacturer: in.Manufacturer,
			Model:        in.Model,
			Location:     in.Location,
		}, sig)
		if err != nil {
			return nil, ErrInvalidSignature
		}
		ok, err := u.roles.Has(model.RoleDeviceManager, signer.Hex())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidSignature
		}
	}

	device := &model.Device{
		DeviceHash:   hash.Hex(),
		Owner:        caller,
		Status:       model.DeviceActive,
		DeviceType:   in.DeviceType,
		Manufacturer: in.Manufacturer,
		ModelName:    in.Model,
		Location:     in.Location,
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		devices := repository.NewDeviceRepository(tx)
		if err := devices.Create(device); err != nil {
			return err
		}
		if err := devices.IncrementTypeCount(in.DeviceType); err != nil {
			return err
		}
		return repository.NewEventRepository(tx).Append(model.EventDeviceRegistered, device.DeviceHash, caller, device)
	})
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(model.EventDeviceRegistered, device)
	return device, nil
}

// UpdateStatus is the manager-driven transition between Active and Suspended
// (or into Retired). Nothing ever leaves Retired.
func (u *RegistryUsecase) UpdateStatus(caller, deviceHash string, status model.DeviceStatus) error {
	ok, err := u.roles.Has(model.RoleDeviceManager, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotDeviceManager
	}
	return u.setStatus(u.db, caller, deviceHash, status)
}

// BatchUpdateStatus applies the updates in one transaction: any failure
// rolls back the whole batch.
func (u *RegistryUsecase) BatchUpdateStatus(caller string, deviceHashes []string, statuses []model.DeviceStatus) error {
	ok, err := u.roles.Has(model.RoleDeviceManager, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotDeviceManager
	}
	if len(deviceHashes) != len(statuses) {
		return ErrArrayLengthMismatch
	}
	return u.db.Transaction(func(tx *gorm.DB) error {
		for i := range deviceHashes {
			if err := u.setStatus(tx, caller, deviceHashes[i], statuses[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *RegistryUsecase) setStatus(db *gorm.DB, caller, deviceHash string, status model.DeviceStatus) error {
	if paused, err := repository.NewPauseRepository(db).IsPaused(model.PauseRegistry); err != nil {
		return err
	} else if paused {
		return ErrPaused
	}
	switch status {
	case model.DeviceActive, model.DeviceSuspended, model.DeviceRetired:
	default:
		return ErrInvalidData
	}

	devices := repository.NewDeviceRepository(db)
	device, err := devices.GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return ErrDeviceNotFound
	}
	if err != nil {
		return err
	}
	if device.Status == model.DeviceRetired {
		return ErrDeviceRetired
	}

	device.Status = status
	if err := devices.Save(device); err != nil {
		return err
	}
	payload := map[string]any{"device_hash": device.DeviceHash, "status": status}
	if err := repository.NewEventRepository(db).Append(model.EventDeviceStatusChanged, device.DeviceHash, caller, payload); err != nil {
		return err
	}
	u.publisher.Publish(model.EventDeviceStatusChanged, payload)
	return nil
}

// TransferOwnership moves a device to a new owner. Only the current owner
// may transfer.
func (u *RegistryUsecase) TransferOwnership(caller, deviceHash, newOwner string) error {
	if paused, err := u.pause.IsPaused(model.PauseRegistry); err != nil {
		return err
	} else if paused {
		return ErrPaused
	}

	device, err := u.devices.GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return ErrDeviceNotFound
	}
	if err != nil {
		return err
	}
	if device.Owner != caller {
		return ErrUnauthorized
	}

	newOwner = common.HexToAddress(newOwner).Hex()
	err = u.db.Transaction(func(tx *gorm.DB) error {
		device.Owner = newOwner
		if err := repository.NewDeviceRepository(tx).Save(device); err != nil {
			return err
		}
		payload := map[string]string{"device_hash": device.DeviceHash, "from": caller, "to": newOwner}
		return repository.NewEventRepository(tx).Append(model.EventOwnershipTransferred, device.DeviceHash, caller, payload)
	})
	if err != nil {
		return err
	}
	u.publisher.Publish(model.EventOwnershipTransferred, map[string]string{
		"device_hash": device.DeviceHash, "from": caller, "to": newOwner,
	})
	return nil
}

// Retire is the owner's self-service, irreversible shutdown of a device.
func (u *RegistryUsecase) Retire(caller, deviceHash string) error {
	if paused, err := u.pause.IsPaused(model.PauseRegistry); err != nil {
		return err
	} else if paused {
		return ErrPaused
	}

	device, err := u.devices.GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return ErrDeviceNotFound
	}
	if err != nil {
		return err
	}
	if device.Owner != caller {
		return ErrUnauthorized
	}
	if device.Status == model.DeviceRetired {
		return ErrDeviceRetired
	}

	device.Status = model.DeviceRetired
	if err := u.devices.Save(device); err != nil {
		return err
	}
	payload := map[string]any{"device_hash": device.DeviceHash, "status": model.DeviceRetired}
	if err := u.auditLog.Append(model.EventDeviceStatusChanged, device.DeviceHash, caller, payload); err != nil {
		return err
	}
	u.publisher.Publish(model.EventDeviceStatusChanged, payload)
	return nil
}

func (u *RegistryUsecase) Get(deviceHash string) (*model.Device, error) {
	device, err := u.devices.GetByHash(common.HexToHash(deviceHash).Hex())
	if err == gorm.ErrRecordNotFound {
		return nil, ErrDeviceNotFound
	}
	return device, err
}

// DevicesByOwner windows the owner's devices to [page*pageSize, page*pageSize+pageSize).
// Pages past the end come back empty.
func (u *RegistryUsecase) DevicesByOwner(owner string, page, pageSize int) ([]model.Device, error) {
	if page < 0 || pageSize <= 0 {
		return []model.Device{}, nil
	}
	devices, err := u.devices.ByOwnerPaginated(common.HexToAddress(owner).Hex(), page*pageSize, pageSize)
	if devices == nil {
		devices = []model.Device{}
	}
	return devices, err
}

func (u *RegistryUsecase) CountByOwner(owner string) (int64, error) {
	return u.devices.CountByOwner(common.HexToAddress(owner).Hex())
}

func (u *RegistryUsecase) TypeCount(deviceType string) (uint64, error) {
	return u.devices.TypeCount(deviceType)
}

// SetPaused is the registry kill-switch: mutations halt, reads stay open.
func (u *RegistryUsecase) SetPaused(caller string, paused bool) error {
	ok, err := u.roles.Has(model.RoleGlobalAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return u.pause.SetPaused(model.PauseRegistry, paused)
}
