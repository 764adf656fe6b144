package repository

import (
	"errors"

	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	Grant(role, account string) error
	Revoke(role, account string) error
	Has(role, account string) (bool, error)
	Members(role string) ([]string, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db}
}

func (r *roleRepository) Grant(role, account string) error {
	// Re-granting an existing membership is a no-op.
	grant := model.RoleGrant{Role: role, Account: account}
	return r.db.FirstOrCreate(&grant, model.RoleGrant{Role: role, Account: account}).Error
}

func (r *roleRepository) Revoke(role, account string) error {
	return r.db.Unscoped().
		Where("role = ? AND account = ?", role, account).
		Delete(&model.RoleGrant{}).Error
}

func (r *roleRepository) Has(role, account string) (bool, error) {
	var grant model.RoleGrant
	err := r.db.Where("role = ? AND account = ?", role, account).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *roleRepository) Members(role string) ([]string, error) {
	var accounts []string
	err := r.db.Model(&model.RoleGrant{}).
		Where("role = ?", role).
		Pluck("account", &accounts).Error
	return accounts, err
}
