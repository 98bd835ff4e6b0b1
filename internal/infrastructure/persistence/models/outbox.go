package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
)

// PendingWriteModel is the persistence model for one queued offline
// mutation. Seq preserves insertion order across restarts; replay drains
// in Seq order.
type PendingWriteModel struct {
	Seq            int64     `gorm:"primaryKey;autoIncrement"`
	ID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ResourcePath   string    `gorm:"type:varchar(200);not null"`
	Method         string    `gorm:"type:varchar(10);not null"`
	Payload        []byte    `gorm:"type:blob"`
	IdempotencyKey string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	RetryCount     int       `gorm:"not null;default:0"`
	LastError      string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PendingWriteModel) TableName() string {
	return "pending_writes"
}

// ToDomain converts the persistence model to a domain PendingWrite.
func (m *PendingWriteModel) ToDomain() *outbox.PendingWrite {
	return &outbox.PendingWrite{
		ID:             m.ID,
		ResourcePath:   m.ResourcePath,
		Method:         m.Method,
		Payload:        m.Payload,
		IdempotencyKey: m.IdempotencyKey,
		RetryCount:     m.RetryCount,
		LastError:      m.LastError,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PendingWrite.
// Seq is left to the database on first insert.
func (m *PendingWriteModel) FromDomain(w *outbox.PendingWrite) {
	m.ID = w.ID
	m.ResourcePath = w.ResourcePath
	m.Method = w.Method
	m.Payload = w.Payload
	m.IdempotencyKey = w.IdempotencyKey
	m.RetryCount = w.RetryCount
	m.LastError = w.LastError
	m.CreatedAt = w.CreatedAt
	m.UpdatedAt = w.UpdatedAt
}
