package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is an external delivery target (shoutrrr URL).
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // discord, slack, telegram, smtp, generic
	URL     string `json:"url"`  // The shoutrrr URL
	Enabled bool   `json:"enabled"`

	// Notification preferences per event class.
	NotifyTransitions bool `json:"notify_transitions" gorm:"default:true"`
	NotifyScheduler   bool `json:"notify_scheduler" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
