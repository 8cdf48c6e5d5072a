package models

import (
	"time"
)

// Finding types. One table holds all three variants; the type field
// discriminates, and the nonconformity-only columns stay empty for
// observations and OFIs.
const (
	FindingTypeNonconformity = "nonconformity"
	FindingTypeObservation   = "observation"
	FindingTypeOFI           = "ofi"
)

// Nonconformity categories.
const (
	NCCategoryMajor = "major"
	NCCategoryMinor = "minor"
)

// Nonconformity verification statuses. "open" means no client response
// yet; only "accepted" and "closed" count as resolved at closure.
const (
	NCStatusOpen            = "open"
	NCStatusClientResponded = "client_responded"
	NCStatusAccepted        = "accepted"
	NCStatusClosed          = "closed"
)

// Finding is an audit finding: a nonconformity, an observation, or an
// opportunity for improvement.
type Finding struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	AuditID     uint      `json:"audit_id" gorm:"index"`
	FindingType string    `json:"finding_type" gorm:"index"`
	Standard    string    `json:"standard"`
	Clause      string    `json:"clause"`
	SiteID      *uint     `json:"site_id,omitempty"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedByID *uint     `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Nonconformity-specific fields.
	Category           string `json:"category,omitempty" gorm:"index"`
	VerificationStatus string `json:"verification_status,omitempty" gorm:"index"`
}

// IsNonconformity reports whether the finding is a nonconformity.
func (f *Finding) IsNonconformity() bool {
	return f.FindingType == FindingTypeNonconformity
}

// IsResolved reports whether a nonconformity has been accepted or closed.
// Non-NC findings never block anything and always count as resolved.
func (f *Finding) IsResolved() bool {
	if !f.IsNonconformity() {
		return true
	}
	return f.VerificationStatus == NCStatusAccepted || f.VerificationStatus == NCStatusClosed
}
