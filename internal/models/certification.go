package models

import (
	"time"
)

// Certificate lifecycle statuses.
const (
	CertStatusActive    = "active"
	CertStatusSuspended = "suspended"
	CertStatusWithdrawn = "withdrawn"
	CertStatusExpired   = "expired"
)

// Certification is an issued management-system certificate. Surveillance
// and recertification audits require the organization to hold at least one
// active certification.
type Certification struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	UUID              string     `json:"uuid" gorm:"uniqueIndex"`
	OrganizationID    uint       `json:"organization_id" gorm:"index"`
	StandardCode      string     `json:"standard_code"` // e.g. "ISO 9001", "ISO 14001"
	CertificateNo     string     `json:"certificate_no" gorm:"uniqueIndex"`
	CertificateStatus string     `json:"certificate_status" gorm:"index;default:'active'"`
	IssuedAt          *time.Time `json:"issued_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
