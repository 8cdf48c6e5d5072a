package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
)

type OrganizationHandler struct {
	db *gorm.DB
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{db: db}
}

type CreateOrganizationRequest struct {
	Name           string `json:"name" binding:"required"`
	RegistrationNo string `json:"registration_no"`
	Industry       string `json:"industry"`
	EmployeeCount  int    `json:"employee_count"`
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org := models.Organization{
		UUID:           uuid.New().String(),
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Industry:       req.Industry,
		EmployeeCount:  req.EmployeeCount,
	}
	if err := h.db.Create(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create organization"})
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (h *OrganizationHandler) List(c *gin.Context) {
	var orgs []models.Organization
	if err := h.db.Order("name asc").Find(&orgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list organizations"})
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var org models.Organization
	err := h.db.Preload("Sites").Preload("Certifications").First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organization"})
		return
	}
	c.JSON(http.StatusOK, org)
}

type CreateSiteRequest struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address"`
	IsHeadOffice  bool   `json:"is_head_office"`
	RiskLevel     string `json:"risk_level"`
	EmployeeCount int    `json:"employee_count"`
}

func (h *OrganizationHandler) AddSite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.RiskLevel {
	case "", models.SiteRiskLow, models.SiteRiskMedium, models.SiteRiskHigh:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk level"})
		return
	}

	site := models.Site{
		UUID:           uuid.New().String(),
		OrganizationID: id,
		Name:           req.Name,
		Address:        req.Address,
		IsHeadOffice:   req.IsHeadOffice,
		RiskLevel:      req.RiskLevel,
		EmployeeCount:  req.EmployeeCount,
	}
	if err := h.db.Create(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create site"})
		return
	}
	c.JSON(http.StatusCreated, site)
}

type CreateCertificationRequest struct {
	StandardCode  string `json:"standard_code" binding:"required"`
	CertificateNo string `json:"certificate_no" binding:"required"`
	Status        string `json:"status"`
}

func (h *OrganizationHandler) AddCertification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = models.CertStatusActive
	}
	switch req.Status {
	case models.CertStatusActive, models.CertStatusSuspended, models.CertStatusWithdrawn, models.CertStatusExpired:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certificate status"})
		return
	}

	cert := models.Certification{
		UUID:              uuid.New().String(),
		OrganizationID:    id,
		StandardCode:      req.StandardCode,
		CertificateNo:     req.CertificateNo,
		CertificateStatus: req.Status,
	}
	if err := h.db.Create(&cert).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "certificate number already exists"})
		return
	}
	c.JSON(http.StatusCreated, cert)
}
