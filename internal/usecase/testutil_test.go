package usecase

import (
	"fmt"
	"testing"

	"iot-ledger-backend/config"
	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/oracle"
	"iot-ledger-backend/internal/repository"
	"iot-ledger-backend/internal/signature"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testAdmin   = common.HexToAddress("0xA1").Hex()
	testManager = common.HexToAddress("0xB1").Hex()
	testDataMgr = common.HexToAddress("0xC1").Hex()
	testOracle  = common.HexToAddress("0xD1").Hex()
	testOwner   = common.HexToAddress("0xE1").Hex()
	testOther   = common.HexToAddress("0xF1").Hex()

	testDeviceHash = common.HexToHash("0xdead").Hex()
	testDataHash   = common.HexToHash("0xbeef").Hex()
)

var testDomain = signature.Domain{
	Name:    "IoTDeviceRegistry",
	Version: "1",
	ChainID: 1,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test. An anonymous ":memory:" DSN
	// gives every pooled connection its own empty database, and a shared
	// cache without the test name would leak rows across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// grantAll wires up the standard role fixture: admin, device manager, data
// manager and oracle accounts.
func grantAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	roles := repository.NewRoleRepository(db)
	grants := []struct{ role, account string }{
		{model.RoleDefaultAdmin, testAdmin},
		{model.RoleGlobalAdmin, testAdmin},
		{model.RoleDeviceManager, testManager},
		{model.RoleDataManager, testDataMgr},
		{model.RoleOracle, testOracle},
		{model.RoleDataManager, testOracle},
	}
	for _, g := range grants {
		if err := roles.Grant(g.role, g.account); err != nil {
			t.Fatalf("grant %s to %s: %v", g.role, g.account, err)
		}
	}
}

func grantRole(t *testing.T, db *gorm.DB, role, account string) {
	t.Helper()
	if err := repository.NewRoleRepository(db).Grant(role, account); err != nil {
		t.Fatalf("grant %s to %s: %v", role, account, err)
	}
}

func newRegistry(t *testing.T, db *gorm.DB) *RegistryUsecase {
	t.Helper()
	return NewRegistryUsecase(db, testDomain, events.NewNoop())
}

func registerTestDevice(t *testing.T, registry *RegistryUsecase, owner string) *model.Device {
	t.Helper()
	device, err := registry.Register(owner, RegisterInput{
		DeviceHash: testDeviceHash,
		DeviceType: "temperature_sensor",
	})
	if err != nil {
		t.Fatalf("register device: %v", err)
	}
	return device
}

// stubDispatcher records enqueued jobs instead of calling anything.
type stubDispatcher struct {
	jobs []oracle.Job
}

func (d *stubDispatcher) Enqueue(job oracle.Job) bool {
	d.jobs = append(d.jobs, job)
	return true
}
