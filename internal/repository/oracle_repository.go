package repository

import (
	"iot-ledger-backend/internal/model"

	"gorm.io/gorm"
)

type OracleRepository interface {
	Create(req *model.VerificationRequest) error
	Save(req *model.VerificationRequest) error
	GetByRequestID(requestID string) (*model.VerificationRequest, error)
	Pending() ([]model.VerificationRequest, error)
}

type oracleRepository struct {
	db *gorm.DB
}

func NewOracleRepository(db *gorm.DB) OracleRepository {
	return &oracleRepository{db}
}

func (r *oracleRepository) Create(req *model.VerificationRequest) error {
	return r.db.Create(req).Error
}

func (r *oracleRepository) Save(req *model.VerificationRequest) error {
	return r.db.Save(req).Error
}

func (r *oracleRepository) GetByRequestID(requestID string) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	err := r.db.Where("request_id = ?", requestID).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *oracleRepository) Pending() ([]model.VerificationRequest, error) {
	var reqs []model.VerificationRequest
	err := r.db.Where("resolved = ?", false).Order("id").Find(&reqs).Error
	return reqs, err
}
