package repository

import (
	"encoding/json"

	"iot-ledger-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventRepository interface {
	Append(eventType, deviceHash, actor string, payload any) error
	ByDevice(deviceHash string, offset, limit int) ([]model.Event, error)
	ByType(eventType string, offset, limit int) ([]model.Event, error)
	Recent(offset, limit int) ([]model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db}
}

func (r *eventRepository) Append(eventType, deviceHash, actor string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := model.Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		DeviceHash: deviceHash,
		Actor:      actor,
		Payload:    datatypes.JSON(raw),
	}
	return r.db.Create(&event).Error
}

func (r *eventRepository) ByDevice(deviceHash string, offset, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Where("device_hash = ?", deviceHash).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ByType(eventType string, offset, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Where("type = ?", eventType).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) Recent(offset, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Order("id desc").Offset(offset).Limit(limit).Find(&events).Error
	return events, err
}
