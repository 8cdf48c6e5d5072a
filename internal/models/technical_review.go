package models

import (
	"time"
)

// Technical review decisions.
const (
	ReviewApproved      = "approved"
	ReviewRejected      = "rejected"
	ReviewNeedsRevision = "needs_revision"
)

// TechnicalReview is the independent review of an audit report required by
// ISO 17021-1 before the file moves to the certification decision. One per
// audit.
type TechnicalReview struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UUID       string     `json:"uuid" gorm:"uniqueIndex"`
	AuditID    uint       `json:"audit_id" gorm:"uniqueIndex"`
	ReviewerID *uint      `json:"reviewer_id,omitempty"`
	Decision   string     `json:"decision"`
	Comments   string     `json:"comments" gorm:"type:text"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsApproved reports whether the review cleared the report for submission.
func (r *TechnicalReview) IsApproved() bool {
	return r.Decision == ReviewApproved
}
