package models

import (
	"time"
)

// Audit types. Stage 2 audits require a completed Stage 1 for the same
// organization; surveillance and recertification require an active
// certification.
const (
	AuditTypeStage1          = "stage1"
	AuditTypeStage2          = "stage2"
	AuditTypeSurveillance    = "surveillance"
	AuditTypeRecertification = "recertification"
	AuditTypeTransfer        = "transfer"
	AuditTypeSpecial         = "special"
)

// Audit is a single certification-body audit engagement. Its Status field
// is owned by the workflow engine; everything else is regular record data.
type Audit struct {
	ID                   uint             `json:"id" gorm:"primaryKey"`
	UUID                 string           `json:"uuid" gorm:"uniqueIndex"`
	Reference            string           `json:"reference" gorm:"uniqueIndex"`
	OrganizationID       uint             `json:"organization_id" gorm:"index"`
	Organization         *Organization    `json:"organization,omitempty"`
	LeadAuditorID        *uint            `json:"lead_auditor_id,omitempty"`
	LeadAuditor          *User            `json:"lead_auditor,omitempty"`
	AuditType            string           `json:"audit_type" gorm:"index"`
	StandardCode         string           `json:"standard_code"`
	Status               string           `json:"status" gorm:"index;default:'draft'"`
	PlannedDurationHours float64          `json:"planned_duration_hours"`
	ScheduledStart       *time.Time       `json:"scheduled_start,omitempty"`
	ScheduledEnd         *time.Time       `json:"scheduled_end,omitempty"`
	Findings             []Finding        `json:"findings,omitempty"`
	TechnicalReview      *TechnicalReview `json:"technical_review,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}
