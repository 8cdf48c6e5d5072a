package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/events"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/logger"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

// Event classes used to filter provider preferences.
const (
	eventClassTransition = "transition"
	eventClassScheduler  = "scheduler"
)

// NotificationService records internal notifications and forwards them to
// configured external providers via shoutrrr. It subscribes to workflow
// events; the engine itself never knows it exists.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Create stores an internal in-app notification.
func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

// List returns notifications, newest first.
func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

// MarkAsRead marks one notification as read.
func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

// MarkAllAsRead marks every unread notification as read.
func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// HandleTransition is the events.Fanout subscriber for committed status
// transitions.
func (s *NotificationService) HandleTransition(e events.Event) {
	title := fmt.Sprintf("Audit %d: %s", e.AuditID, workflow.StatusLabels[e.NewStatus])
	message := fmt.Sprintf("Audit %d moved from %s to %s.", e.AuditID, e.OldStatus, e.NewStatus)

	if _, err := s.Create(models.NotificationTypeInfo, title, message); err != nil {
		logger.Log().WithError(err).Warn("failed to store transition notification")
	}
	s.sendExternal(eventClassTransition, title, message)
}

// SchedulerAlert records and forwards a scheduler sweep finding.
func (s *NotificationService) SchedulerAlert(title, message string) {
	if _, err := s.Create(models.NotificationTypeWarning, title, message); err != nil {
		logger.Log().WithError(err).Warn("failed to store scheduler notification")
	}
	s.sendExternal(eventClassScheduler, title, message)
}

// sendExternal pushes the message to every enabled provider whose
// preferences include the event class. Delivery is fire-and-forget; a
// failing provider must not block the caller.
func (s *NotificationService) sendExternal(eventClass, title, message string) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		switch eventClass {
		case eventClassTransition:
			if !provider.NotifyTransitions {
				continue
			}
		case eventClassScheduler:
			if !provider.NotifyScheduler {
				continue
			}
		}

		go func(p models.NotificationProvider) {
			body := fmt.Sprintf("%s\n%s", title, message)
			if err := shoutrrr.Send(p.URL, body); err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
					"type":     p.Type,
				}).WithError(err).Warn("external notification failed")
			}
		}(provider)
	}
}
