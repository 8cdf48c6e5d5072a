package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.service.List(unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.service.MarkAsRead(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.service.MarkAllAsRead(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark all notifications as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

type CreateProviderRequest struct {
	Name              string `json:"name" binding:"required"`
	Type              string `json:"type" binding:"required"`
	URL               string `json:"url" binding:"required"`
	Enabled           bool   `json:"enabled"`
	NotifyTransitions *bool  `json:"notify_transitions"`
	NotifyScheduler   *bool  `json:"notify_scheduler"`
}

func (h *NotificationHandler) CreateProvider(c *gin.Context) {
	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name:              req.Name,
		Type:              req.Type,
		URL:               req.URL,
		Enabled:           req.Enabled,
		NotifyTransitions: req.NotifyTransitions == nil || *req.NotifyTransitions,
		NotifyScheduler:   req.NotifyScheduler == nil || *req.NotifyScheduler,
	}
	if err := h.service.DB.Create(&provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create provider"})
		return
	}
	c.JSON(http.StatusCreated, provider)
}

func (h *NotificationHandler) ListProviders(c *gin.Context) {
	var providers []models.NotificationProvider
	if err := h.service.DB.Order("name asc").Find(&providers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list providers"})
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *NotificationHandler) DeleteProvider(c *gin.Context) {
	result := h.service.DB.Delete(&models.NotificationProvider{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete provider"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Provider deleted"})
}
