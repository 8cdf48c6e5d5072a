// Package sampling implements the IAF MD1 multi-site sampling rules:
// minimum sample size from the total site count and risk profile, and
// validation of a proposed site selection. All functions are pure.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidSiteCount = errors.New("total sites must be at least 1")

// Scope variation levels, shared vocabulary with the duration calculator.
const (
	ScopeUniform  = "uniform"
	ScopeModerate = "moderate"
	ScopeHigh     = "high"
)

// highRiskSitesPerExtra is the number of high-risk sites that each add one
// site to the sample.
const highRiskSitesPerExtra = 5

// previousFindingsThreshold is the finding count above which the sample is
// enlarged by 20% of the base.
const previousFindingsThreshold = 3

// Input describes the certification scope to sample.
type Input struct {
	TotalSites             int
	HighRiskSites          int
	PreviousFindingsCount  int
	IsInitialCertification bool
	ScopeVariation         string
}

// Result carries the computed minimum together with the breakdown and the
// site selection guidance auditors are expected to follow. Results are
// transient; callers recompute on demand.
type Result struct {
	MinimumSites    int      `json:"minimum_sites"`
	BaseCalculation int      `json:"base_calculation"`
	RiskAdjustment  int      `json:"risk_adjustment"`
	Justification   string   `json:"justification"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`
}

// CalculateSampleSize computes the IAF MD1 minimum number of sites to
// visit. The base sample is the square root of the site count (rounded up)
// for initial certification, reduced for surveillance cycles; risk factors
// add sites on top, and the result never exceeds the total site count.
func CalculateSampleSize(in Input) (Result, error) {
	if in.TotalSites < 1 {
		return Result{}, ErrInvalidSiteCount
	}

	sqrt := math.Sqrt(float64(in.TotalSites))
	var base int
	if in.IsInitialCertification {
		base = int(math.Ceil(sqrt))
	} else {
		base = int(math.Ceil(sqrt - 0.5))
		if base < 1 {
			base = 1
		}
	}

	adjustment := 0
	var factors []string

	if in.HighRiskSites > 0 {
		extra := int(math.Ceil(float64(in.HighRiskSites) / highRiskSitesPerExtra))
		adjustment += extra
		factors = append(factors, fmt.Sprintf("%d high-risk site(s): +%d", in.HighRiskSites, extra))
	}
	if in.PreviousFindingsCount > previousFindingsThreshold {
		extra := int(math.Ceil(float64(base) * 0.2))
		adjustment += extra
		factors = append(factors, fmt.Sprintf("%d previous findings: +%d (20%% of base)", in.PreviousFindingsCount, extra))
	}
	switch in.ScopeVariation {
	case ScopeHigh:
		adjustment += 2
		factors = append(factors, "high scope variation between sites: +2")
	case ScopeModerate:
		adjustment += 1
		factors = append(factors, "moderate scope variation between sites: +1")
	}

	minimum := base + adjustment
	if minimum > in.TotalSites {
		minimum = in.TotalSites
	}

	cycle := "surveillance"
	if in.IsInitialCertification {
		cycle = "initial certification"
	}
	justification := fmt.Sprintf(
		"IAF MD1 %s sampling of %d site(s): base sample %d, risk adjustment +%d, minimum %d.",
		cycle, in.TotalSites, base, adjustment, minimum)
	if len(factors) > 0 {
		justification += " Risk factors: " + strings.Join(factors, "; ") + "."
	}

	return Result{
		MinimumSites:    minimum,
		BaseCalculation: base,
		RiskAdjustment:  adjustment,
		Justification:   justification,
		RiskFactors:     factors,
		Recommendations: []string{
			"Always include the head office in the sample.",
			"Select sites so the sample covers the full scope variation across the organization.",
			"Prioritize high-risk sites and sites with previous nonconformities.",
			"Stage 1 and Stage 2 must sample the identical site set.",
		},
	}, nil
}

// SelectionResult reports whether a proposed selection satisfies the
// required minimum. Invalid selections are reported, not raised, so forms
// can surface the shortfall inline.
type SelectionResult struct {
	IsValid       bool   `json:"is_valid"`
	SelectedSites int    `json:"selected_sites"`
	Shortfall     int    `json:"shortfall"`
	Reason        string `json:"reason,omitempty"`
}

// ValidateSiteSelection checks a proposed number of selected sites against
// the required minimum and the total available.
func ValidateSiteSelection(selectedSites, requiredMinimum, totalSites int) SelectionResult {
	if selectedSites > totalSites {
		return SelectionResult{
			SelectedSites: selectedSites,
			Reason:        fmt.Sprintf("%d site(s) selected but only %d exist", selectedSites, totalSites),
		}
	}
	if selectedSites < requiredMinimum {
		shortfall := requiredMinimum - selectedSites
		return SelectionResult{
			SelectedSites: selectedSites,
			Shortfall:     shortfall,
			Reason:        fmt.Sprintf("%d site(s) selected, %d below the required minimum of %d", selectedSites, shortfall, requiredMinimum),
		}
	}
	return SelectionResult{IsValid: true, SelectedSites: selectedSites}
}
