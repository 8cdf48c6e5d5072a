package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/duration"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/sampling"
)

// CalculationHandler exposes the IAF MD5 duration and IAF MD1 sampling
// calculators. Results are computed on demand and never stored.
type CalculationHandler struct{}

func NewCalculationHandler() *CalculationHandler {
	return &CalculationHandler{}
}

type DurationRequest struct {
	PlannedHours           float64 `json:"planned_hours" binding:"required"`
	EmployeeCount          int     `json:"employee_count" binding:"required"`
	StandardCode           string  `json:"standard_code"`
	IsInitialCertification bool    `json:"is_initial_certification"`

	NumberOfSites          int    `json:"number_of_sites"`
	ScopeVariation         string `json:"scope_variation"`
	ProcessComplexity      string `json:"process_complexity"`
	RegulatoryEnvironment  string `json:"regulatory_environment"`
	HasOutsourcedProcesses bool   `json:"has_outsourced_processes"`
	PreviousMajorNCs       int    `json:"previous_major_ncs"`
}

func (h *CalculationHandler) ValidateDuration(c *gin.Context) {
	var req DurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := duration.ValidateAuditDuration(duration.ValidationInput{
		PlannedHours:           req.PlannedHours,
		EmployeeCount:          req.EmployeeCount,
		StandardCode:           req.StandardCode,
		IsInitialCertification: req.IsInitialCertification,
		Complexity: duration.ComplexityInput{
			NumberOfSites:          req.NumberOfSites,
			ScopeVariation:         req.ScopeVariation,
			ProcessComplexity:      req.ProcessComplexity,
			RegulatoryEnvironment:  req.RegulatoryEnvironment,
			HasOutsourcedProcesses: req.HasOutsourcedProcesses,
			PreviousMajorNCs:       req.PreviousMajorNCs,
		},
	})
	if err != nil {
		if errors.Is(err, duration.ErrInvalidEmployeeCount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "duration validation failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type SamplingRequest struct {
	TotalSites             int    `json:"total_sites" binding:"required"`
	HighRiskSites          int    `json:"high_risk_sites"`
	PreviousFindingsCount  int    `json:"previous_findings_count"`
	IsInitialCertification bool   `json:"is_initial_certification"`
	ScopeVariation         string `json:"scope_variation"`
}

func (h *CalculationHandler) CalculateSampling(c *gin.Context) {
	var req SamplingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sampling.CalculateSampleSize(sampling.Input{
		TotalSites:             req.TotalSites,
		HighRiskSites:          req.HighRiskSites,
		PreviousFindingsCount:  req.PreviousFindingsCount,
		IsInitialCertification: req.IsInitialCertification,
		ScopeVariation:         req.ScopeVariation,
	})
	if err != nil {
		if errors.Is(err, sampling.ErrInvalidSiteCount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sampling calculation failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Zero is a legal value for selected_sites and required_minimum (the
// shortfall path reports it), so only total_sites is required.
type SiteSelectionRequest struct {
	SelectedSites   int `json:"selected_sites"`
	RequiredMinimum int `json:"required_minimum"`
	TotalSites      int `json:"total_sites" binding:"required"`
}

func (h *CalculationHandler) ValidateSiteSelection(c *gin.Context) {
	var req SiteSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sampling.ValidateSiteSelection(req.SelectedSites, req.RequiredMinimum, req.TotalSites))
}
