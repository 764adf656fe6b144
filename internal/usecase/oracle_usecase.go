package usecase

import (
	"encoding/binary"
	"sync"
	"time"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/oracle"
	"iot-ledger-backend/internal/repository"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gorm.io/gorm"
)

// DefaultDisputeTimeout is how long a request must sit unanswered before the
// admin override may resolve it.
const DefaultDisputeTimeout = time.Hour

// Dispatcher hands verification jobs to the async oracle worker.
type Dispatcher interface {
	Enqueue(job oracle.Job) bool
}

// JobConfig parameterizes outbound verification calls. Changes apply to
// subsequent requests only; in-flight requests keep the parameters they were
// dispatched with.
type JobConfig struct {
	Method         string        `json:"method" yaml:"method"`
	JSONPath       string        `json:"json_path" yaml:"json_path"`
	DisputeTimeout time.Duration `json:"dispute_timeout" yaml:"dispute_timeout"`
}

// OracleUsecase runs the per-(device, record) dispute state machine:
// none -> requested -> resolved. Resolution arrives either through the
// oracle callback or, after the timeout, through the admin override.
type OracleUsecase struct {
	db         *gorm.DB
	requests   repository.OracleRepository
	records    repository.LedgerRepository
	roles      repository.RoleRepository
	auditLog   repository.EventRepository
	publisher  events.Publisher
	ledger     *LedgerUsecase
	rewards    *RewardsUsecase
	dispatcher Dispatcher

	// account is the oracle service identity: it holds the oracle and data
	// manager roles and performs the side effects of admin-resolved disputes.
	account string

	cfgMu sync.RWMutex
	cfg   JobConfig
}

func NewOracleUsecase(db *gorm.DB, ledger *LedgerUsecase, rewards *RewardsUsecase,
	dispatcher Dispatcher, publisher events.Publisher, account string, cfg JobConfig) *OracleUsecase {
	if cfg.Method == "" {
		cfg.Method = "GET"
	}
	if cfg.JSONPath == "" {
		cfg.JSONPath = "data.valid"
	}
	if cfg.DisputeTimeout == 0 {
		cfg.DisputeTimeout = DefaultDisputeTimeout
	}
	return &OracleUsecase{
		db:         db,
		requests:   repository.NewOracleRepository(db),
		records:    repository.NewLedgerRepository(db),
		roles:      repository.NewRoleRepository(db),
		auditLog:   repository.NewEventRepository(db),
		publisher:  publisher,
		ledger:     ledger,
		rewards:    rewards,
		dispatcher: dispatcher,
		account:    common.HexToAddress(account).Hex(),
		cfg:        cfg,
	}
}

// RequestID derives the key for a (device, record) dispute:
// keccak256(deviceHash ‖ recordIndex).
func RequestID(deviceHash string, recordIndex uint64) string {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], recordIndex)
	return crypto.Keccak256Hash(common.HexToHash(deviceHash).Bytes(), idx[:]).Hex()
}

// RequestVerification opens a dispute against a record and dispatches the
// external verification job. One dispute per (device, record), ever.
func (u *OracleUsecase) RequestVerification(caller, deviceHash string, recordIndex uint64, externalAPI string) (*model.VerificationRequest, error) {
	hash := common.HexToHash(deviceHash).Hex()

	record, err := u.records.ByIndex(hash, recordIndex)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrInvalidData
	}
	if err != nil {
		return nil, err
	}
	if record.Validated {
		return nil, ErrRecordAlreadyValid
	}

	requestID := RequestID(hash, recordIndex)
	if _, err := u.requests.GetByRequestID(requestID); err == nil {
		return nil, ErrDuplicateRequest
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	request := &model.VerificationRequest{
		RequestID:   requestID,
		DeviceHash:  hash,
		RecordIndex: recordIndex,
		Disputer:    caller,
		ExternalAPI: externalAPI,
	}
	err = u.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewOracleRepository(tx).Create(request); err != nil {
			return err
		}
		return repository.NewEventRepository(tx).Append(model.EventVerificationRequest, hash, caller, request)
	})
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(model.EventVerificationRequest, request)

	cfg := u.Config()
	u.dispatcher.Enqueue(oracle.Job{
		RequestID: requestID,
		Method:    cfg.Method,
		URL:       externalAPI,
		Path:      cfg.JSONPath,
	})
	return request, nil
}

// FulfillVerification is the oracle callback. The caller must hold the
// oracle role; a resolved request can never be re-resolved through this path.
func (u *OracleUsecase) FulfillVerification(caller, requestID string, isValid bool) error {
	ok, err := u.roles.Has(model.RoleOracle, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOracle
	}
	return u.resolve(caller, requestID, isValid, model.EventVerificationComplete)
}

// ResolveDispute is the manual admin override for requests the oracle never
// answered. Only allowed once the dispute timeout has elapsed.
func (u *OracleUsecase) ResolveDispute(caller, deviceHash string, recordIndex uint64, finalValidity bool) error {
	ok, err := u.roles.Has(model.RoleGlobalAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}

	requestID := RequestID(deviceHash, recordIndex)
	request, err := u.requests.GetByRequestID(requestID)
	if err == gorm.ErrRecordNotFound {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	if request.Resolved {
		return ErrAlreadyResolved
	}
	if time.Since(request.CreatedAt) < u.Config().DisputeTimeout {
		return ErrDisputeActive
	}

	// Side effects run under the oracle service identity, which holds the
	// operational roles the admin may lack.
	return u.resolve(u.account, requestID, finalValidity, model.EventDisputeResolved)
}

// resolve flips the request and runs its side effects in one transaction:
// either everything commits or the request stays unresolved and the verdict
// can be delivered again.
func (u *OracleUsecase) resolve(actor, requestID string, isValid bool, eventType string) error {
	if isValid {
		u.ledger.mu.Lock()
		defer u.ledger.mu.Unlock()
	} else {
		u.rewards.mu.Lock()
		defer u.rewards.mu.Unlock()
	}

	var request *model.VerificationRequest
	err := u.db.Transaction(func(tx *gorm.DB) error {
		var err error
		request, err = repository.NewOracleRepository(tx).GetByRequestID(requestID)
		if err == gorm.ErrRecordNotFound {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if request.Resolved {
			return ErrAlreadyResolved
		}

		request.Resolved = true
		request.Valid = isValid
		if err := repository.NewOracleRepository(tx).Save(request); err != nil {
			return err
		}
		if err := repository.NewEventRepository(tx).Append(eventType, request.DeviceHash, actor, request); err != nil {
			return err
		}

		if isValid {
			record, err := repository.NewLedgerRepository(tx).ByIndex(request.DeviceHash, request.RecordIndex)
			if err != nil {
				return err
			}
			if !record.Validated {
				if _, err := u.ledger.validate(tx, actor, request.DeviceHash, record.RecordedAt); err != nil {
					return err
				}
			}
			return nil
		}
		// A negative result slashes the original disputer.
		_, err = u.rewards.slash(tx, actor, request.DeviceHash, request.Disputer)
		return err
	})
	if err != nil {
		return err
	}

	u.publisher.Publish(eventType, request)
	return nil
}

func (u *OracleUsecase) Request(deviceHash string, recordIndex uint64) (*model.VerificationRequest, error) {
	request, err := u.requests.GetByRequestID(RequestID(deviceHash, recordIndex))
	if err == gorm.ErrRecordNotFound {
		return nil, ErrRequestNotFound
	}
	return request, err
}

func (u *OracleUsecase) Pending() ([]model.VerificationRequest, error) {
	return u.requests.Pending()
}

func (u *OracleUsecase) Config() JobConfig {
	u.cfgMu.RLock()
	defer u.cfgMu.RUnlock()
	return u.cfg
}

// SetConfig swaps the oracle job parameters for subsequent requests.
// Admin only; in-flight requests are not migrated.
func (u *OracleUsecase) SetConfig(caller string, cfg JobConfig) error {
	ok, err := u.roles.Has(model.RoleGlobalAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	u.cfgMu.Lock()
	defer u.cfgMu.Unlock()
	if cfg.Method != "" {
		u.cfg.Method = cfg.Method
	}
	if cfg.JSONPath != "" {
		u.cfg.JSONPath = cfg.JSONPath
	}
	if cfg.DisputeTimeout > 0 {
		u.cfg.DisputeTimeout = cfg.DisputeTimeout
	}
	return nil
}
