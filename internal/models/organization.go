package models

import (
	"time"
)

// Organization is a certified or applicant client of the certification body.
type Organization struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UUID           string          `json:"uuid" gorm:"uniqueIndex"`
	Name           string          `json:"name" gorm:"index"`
	RegistrationNo string          `json:"registration_no"`
	Industry       string          `json:"industry"`
	EmployeeCount  int             `json:"employee_count"`
	Sites          []Site          `json:"sites,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Site risk levels used by the IAF MD1 sampling rules.
const (
	SiteRiskLow    = "low"
	SiteRiskMedium = "medium"
	SiteRiskHigh   = "high"
)

// Site is a physical location within an organization's certification scope.
type Site struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UUID           string    `json:"uuid" gorm:"uniqueIndex"`
	OrganizationID uint      `json:"organization_id" gorm:"index"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	IsHeadOffice   bool      `json:"is_head_office"`
	RiskLevel      string    `json:"risk_level" gorm:"default:'low'"`
	EmployeeCount  int       `json:"employee_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
