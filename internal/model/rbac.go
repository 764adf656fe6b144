package model

import "gorm.io/gorm"

// The five recognized role identifiers. No other role is ever grantable.
const (
	RoleDefaultAdmin  = "default_admin"
	RoleGlobalAdmin   = "global_admin"
	RoleDeviceManager = "device_manager"
	RoleDataManager   = "data_manager"
	RoleOracle        = "oracle"
)

// RoleGrant is one (role, account) membership row.
type RoleGrant struct {
	gorm.Model
	Role    string `json:"role" gorm:"uniqueIndex:idx_role_account;not null"`
	Account string `json:"account" gorm:"uniqueIndex:idx_role_account;not null"`
}

func KnownRole(role string) bool {
	switch role {
	case RoleDefaultAdmin, RoleGlobalAdmin, RoleDeviceManager, RoleDataManager, RoleOracle:
		return true
	}
	return false
}

// AdminRole returns the role that gates granting and revoking the given role.
// default_admin administers global_admin (and itself); global_admin administers
// the three operational roles. Fixed at construction, never re-parented.
func AdminRole(role string) string {
	switch role {
	case RoleDefaultAdmin, RoleGlobalAdmin:
		return RoleDefaultAdmin
	default:
		return RoleGlobalAdmin
	}
}
