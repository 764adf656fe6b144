package usecase

import (
	"iot-ledger-backend/internal/events"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"
)

// AccessUsecase is the single source of truth for the five roles. Each role
// is administered by a fixed parent role; anything outside the five known
// identifiers is rejected outright.
type AccessUsecase struct {
	roles     repository.RoleRepository
	auditLog  repository.EventRepository
	publisher events.Publisher
}

func NewAccessUsecase(roles repository.RoleRepository, auditLog repository.EventRepository, publisher events.Publisher) *AccessUsecase {
	return &AccessUsecase{roles: roles, auditLog: auditLog, publisher: publisher}
}

func (u *AccessUsecase) GrantRole(caller, role, account string) error {
	if !model.KnownRole(role) {
		return ErrUnknownRole
	}
	ok, err := u.roles.Has(model.AdminRole(role), caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRoleAdmin
	}
	if err := u.roles.Grant(role, account); err != nil {
		return err
	}
	payload := map[string]string{"role": role, "account": account}
	if err := u.auditLog.Append(model.EventRoleGranted, "", caller, payload); err != nil {
		return err
	}
	u.publisher.Publish(model.EventRoleGranted, payload)
	return nil
}

func (u *AccessUsecase) RevokeRole(caller, role, account string) error {
	if !model.KnownRole(role) {
		return ErrUnknownRole
	}
	ok, err := u.roles.Has(model.AdminRole(role), caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRoleAdmin
	}
	if err := u.roles.Revoke(role, account); err != nil {
		return err
	}
	payload := map[string]string{"role": role, "account": account}
	if err := u.auditLog.Append(model.EventRoleRevoked, "", caller, payload); err != nil {
		return err
	}
	u.publisher.Publish(model.EventRoleRevoked, payload)
	return nil
}

func (u *AccessUsecase) HasRole(role, account string) (bool, error) {
	if !model.KnownRole(role) {
		return false, ErrUnknownRole
	}
	return u.roles.Has(role, account)
}

func (u *AccessUsecase) Members(role string) ([]string, error) {
	if !model.KnownRole(role) {
		return nil, ErrUnknownRole
	}
	return u.roles.Members(role)
}
