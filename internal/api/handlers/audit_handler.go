package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/api/middleware"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/services"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

type AuditHandler struct {
	service *services.AuditService
}

func NewAuditHandler(service *services.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// transitionStatus maps a rejected transition to the HTTP status the
// caller should see. Guard and permission failures are business
// conflicts, not server faults.
func transitionStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrAuditNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrUnknownState):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrGuardFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type CreateAuditRequest struct {
	OrganizationID       uint    `json:"organization_id" binding:"required"`
	AuditType            string  `json:"audit_type" binding:"required"`
	StandardCode         string  `json:"standard_code"`
	PlannedDurationHours float64 `json:"planned_duration_hours"`
	LeadAuditorID        *uint   `json:"lead_auditor_id"`
}

func (h *AuditHandler) Create(c *gin.Context) {
	var req CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit := models.Audit{
		OrganizationID:       req.OrganizationID,
		AuditType:            req.AuditType,
		StandardCode:         req.StandardCode,
		PlannedDurationHours: req.PlannedDurationHours,
		LeadAuditorID:        req.LeadAuditorID,
	}
	if err := h.service.Create(&audit); err != nil {
		if errors.Is(err, services.ErrInvalidAuditType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create audit"})
		return
	}
	c.JSON(http.StatusCreated, audit)
}

func (h *AuditHandler) List(c *gin.Context) {
	var orgID uint
	if v := c.Query("organization_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
			return
		}
		orgID = uint(parsed)
	}

	audits, err := h.service.List(c.Query("status"), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audits"})
		return
	}
	c.JSON(http.StatusOK, audits)
}

func (h *AuditHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	audit, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrAuditNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "audit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit"})
		return
	}
	c.JSON(http.StatusOK, audit)
}

type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *AuditHandler) Transition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := h.service.Transition(id, req.Target, middleware.CurrentUserID(c), req.Notes)
	if err != nil {
		c.JSON(transitionStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, audit)
}

// AvailableTransitions lists the statuses the caller may move this audit
// into, for building action menus.
func (h *AuditHandler) AvailableTransitions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	options, err := h.service.AvailableTransitions(id, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrAuditNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "audit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transitions"})
		return
	}
	if options == nil {
		options = []workflow.StatusOption{}
	}
	c.JSON(http.StatusOK, gin.H{"transitions": options})
}

func (h *AuditHandler) StatusLog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.service.StatusLog(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load status log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type CreateFindingRequest struct {
	FindingType string `json:"finding_type" binding:"required"`
	Category    string `json:"category"`
	Standard    string `json:"standard"`
	Clause      string `json:"clause"`
	SiteID      *uint  `json:"site_id"`
	Description string `json:"description" binding:"required"`
}

func (h *AuditHandler) AddFinding(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateFindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	finding := models.Finding{
		AuditID:     id,
		FindingType: req.FindingType,
		Category:    req.Category,
		Standard:    req.Standard,
		Clause:      req.Clause,
		SiteID:      req.SiteID,
		Description: req.Description,
	}
	if userID := middleware.CurrentUserID(c); userID != 0 {
		finding.CreatedByID = &userID
	}

	if err := h.service.AddFinding(&finding); err != nil {
		switch {
		case errors.Is(err, services.ErrAuditNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "audit not found"})
		case errors.Is(err, services.ErrFindingTypeWrong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAuditNotEditable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record finding"})
		}
		return
	}
	c.JSON(http.StatusCreated, finding)
}

type VerificationRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AuditHandler) SetVerificationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetNCVerificationStatus(id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrFindingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "finding not found"})
		case errors.Is(err, services.ErrUnknownNCStatus), errors.Is(err, services.ErrNotNonconformity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update verification status"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification status updated"})
}

type TechnicalReviewRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

func (h *AuditHandler) SetTechnicalReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req TechnicalReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Decision {
	case models.ReviewApproved, models.ReviewRejected, models.ReviewNeedsRevision:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review decision"})
		return
	}

	review := models.TechnicalReview{
		AuditID:  id,
		Decision: req.Decision,
		Comments: req.Comments,
	}
	if userID := middleware.CurrentUserID(c); userID != 0 {
		review.ReviewerID = &userID
	}

	if err := h.service.SetTechnicalReview(&review); err != nil {
		if errors.Is(err, services.ErrReviewExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record technical review"})
		return
	}
	c.JSON(http.StatusCreated, review)
}
