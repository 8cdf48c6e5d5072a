package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrStatusLogImmutable is returned by the GORM hooks when something
// attempts to update or delete a status log row.
var ErrStatusLogImmutable = errors.New("audit status log entries are immutable")

// AuditStatusLog is the append-only trail of status transitions. Exactly
// one row is created per successful transition, in the same transaction as
// the status update. Rows are never updated or deleted.
type AuditStatusLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	AuditID     uint      `json:"audit_id" gorm:"index"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ChangedByID *uint     `json:"changed_by_id,omitempty"`
	Notes       string    `json:"notes" gorm:"type:text"`
	ChangedAt   time.Time `json:"changed_at" gorm:"index"`
}

// BeforeUpdate rejects any update to an existing log entry.
func (l *AuditStatusLog) BeforeUpdate(*gorm.DB) error {
	return ErrStatusLogImmutable
}

// BeforeDelete rejects deletion of log entries.
func (l *AuditStatusLog) BeforeDelete(*gorm.DB) error {
	return ErrStatusLogImmutable
}
