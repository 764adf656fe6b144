package usecase

import (
	"testing"

	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"
)

func TestGrantRoleUnknownIdentifier(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	access := NewAccessUsecase(repository.NewRoleRepository(db), repository.NewEventRepository(db), events.NewNoop())

	if err := access.GrantRole(testAdmin, "super_admin", testOther); err != ErrUnknownRole {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestGrantRoleRequiresAdminRole(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	access := NewAccessUsecase(repository.NewRoleRepository(db), repository.NewEventRepository(db), events.NewNoop())

	// A device manager does not administer the data manager role.
	if err := access.GrantRole(testManager, model.RoleDataManager, testOther); err != ErrNotRoleAdmin {
		t.Fatalf("expected ErrNotRoleAdmin, got %v", err)
	}

	// The global admin does.
	if err := access.GrantRole(testAdmin, model.RoleDataManager, testOther); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	has, err := access.HasRole(model.RoleDataManager, testOther)
	if err != nil || !has {
		t.Fatalf("expected membership, got has=%v err=%v", has, err)
	}
}

func TestOnlyDefaultAdminAdministersGlobalAdmin(t *testing.T) {
	db := newTestDB(t)
	roles := repository.NewRoleRepository(db)
	if err := roles.Grant(model.RoleGlobalAdmin, testManager); err != nil {
		t.Fatalf("seed grant: %v", err)
	}
	access := NewAccessUsecase(roles, repository.NewEventRepository(db), events.NewNoop())

	// Holding global_admin alone is not enough to mint more global admins.
	if err := access.GrantRole(testManager, model.RoleGlobalAdmin, testOther); err != ErrNotRoleAdmin {
		t.Fatalf("expected ErrNotRoleAdmin, got %v", err)
	}
}

func TestRevokeRole(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	access := NewAccessUsecase(repository.NewRoleRepository(db), repository.NewEventRepository(db), events.NewNoop())

	if err := access.RevokeRole(testAdmin, model.RoleDeviceManager, testManager); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	has, err := access.HasRole(model.RoleDeviceManager, testManager)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if has {
		t.Fatalf("expected membership revoked")
	}
}

func TestMembersListsGrants(t *testing.T) {
	db := newTestDB(t)
	grantAll(t, db)
	access := NewAccessUsecase(repository.NewRoleRepository(db), repository.NewEventRepository(db), events.NewNoop())

	members, err := access.Members(model.RoleDataManager)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 data managers, got %d", len(members))
	}
}
