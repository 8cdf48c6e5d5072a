package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Certification-body roles. A user holds exactly one role; what each role
// may do to an audit's status is decided in the workflow package.
const (
	RoleCBAdmin       = "cb_admin"
	RoleDecisionMaker = "decision_maker"
	RoleLeadAuditor   = "lead_auditor"
	RoleAuditor       = "auditor"
)

// User represents certification-body personnel with role-based access.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UUID         string     `json:"uuid" gorm:"uniqueIndex"`
	Email        string     `json:"email" gorm:"uniqueIndex"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         string     `json:"role" gorm:"default:'auditor'"`
	Enabled      bool       `json:"enabled" gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
