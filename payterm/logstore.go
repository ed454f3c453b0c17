package payterm

import (
	"errors"

	"gorm.io/gorm"

	"pos-api/models"
)

// LogStore persists the audit trail. Rows are append-only with respect
// to history: CreatePending inserts a new row per attempt and Finalize
// updates that same row exactly once.
type LogStore interface {
	CreatePending(entry *models.TransactionLog) error
	Finalize(entry *models.TransactionLog) error
	Latest(deviceID string) (*models.TransactionLog, error)
}

type gormLogStore struct {
	db *gorm.DB
}

func NewLogStore(db *gorm.DB) LogStore {
	return &gormLogStore{db: db}
}

func (s *gormLogStore) CreatePending(entry *models.TransactionLog) error {
	entry.Status = models.TranPending
	return s.db.Create(entry).Error
}

func (s *gormLogStore) Finalize(entry *models.TransactionLog) error {
	return s.db.Save(entry).Error
}

// Latest returns the most recently created log row for a device, or
// nil when the device has no history yet.
func (s *gormLogStore) Latest(deviceID string) (*models.TransactionLog, error) {
	var entry models.TransactionLog
	err := s.db.
		Where("device_id = ?", deviceID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
