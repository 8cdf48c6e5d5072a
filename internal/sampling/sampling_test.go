package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSampleSize(t *testing.T) {
	t.Run("initial certification square root rule", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{TotalSites: 9, IsInitialCertification: true})
		assert.NoError(t, err)
		assert.Equal(t, 3, res.MinimumSites)
		assert.Equal(t, 3, res.BaseCalculation)
		assert.Zero(t, res.RiskAdjustment)
		assert.Empty(t, res.RiskFactors)
	})

	t.Run("surveillance with high-risk sites", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{
			TotalSites:    100,
			HighRiskSites: 10,
		})
		assert.NoError(t, err)
		assert.Equal(t, 10, res.BaseCalculation)
		assert.Equal(t, 2, res.RiskAdjustment)
		assert.Equal(t, 12, res.MinimumSites)
		assert.Len(t, res.RiskFactors, 1)
	})

	t.Run("large surveillance population", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{TotalSites: 1000})
		assert.NoError(t, err)
		assert.Equal(t, 32, res.MinimumSites)
	})

	t.Run("previous findings enlarge the sample", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{
			TotalSites:             25,
			PreviousFindingsCount:  4,
			IsInitialCertification: true,
		})
		assert.NoError(t, err)
		// base 5, +ceil(5*0.2)=1
		assert.Equal(t, 6, res.MinimumSites)
	})

	t.Run("scope variation adjustments", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{TotalSites: 16, IsInitialCertification: true, ScopeVariation: ScopeHigh})
		assert.NoError(t, err)
		assert.Equal(t, 6, res.MinimumSites)

		res, err = CalculateSampleSize(Input{TotalSites: 16, IsInitialCertification: true, ScopeVariation: ScopeModerate})
		assert.NoError(t, err)
		assert.Equal(t, 5, res.MinimumSites)
	})

	t.Run("minimum never exceeds total sites", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{
			TotalSites:             2,
			HighRiskSites:          2,
			PreviousFindingsCount:  10,
			IsInitialCertification: true,
			ScopeVariation:         ScopeHigh,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, res.MinimumSites)
	})

	t.Run("single site organization", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{TotalSites: 1})
		assert.NoError(t, err)
		assert.Equal(t, 1, res.MinimumSites)
	})

	t.Run("rejects non-positive site count", func(t *testing.T) {
		_, err := CalculateSampleSize(Input{TotalSites: 0})
		assert.ErrorIs(t, err, ErrInvalidSiteCount)
	})

	t.Run("selection guidance always present", func(t *testing.T) {
		res, err := CalculateSampleSize(Input{TotalSites: 9, IsInitialCertification: true})
		assert.NoError(t, err)
		assert.NotEmpty(t, res.Justification)
		joined := ""
		for _, r := range res.Recommendations {
			joined += r + "\n"
		}
		assert.Contains(t, joined, "head office")
		assert.Contains(t, joined, "identical site set")
	})
}

func TestValidateSiteSelection(t *testing.T) {
	t.Run("valid selection", func(t *testing.T) {
		res := ValidateSiteSelection(5, 5, 10)
		assert.True(t, res.IsValid)
		assert.Zero(t, res.Shortfall)
		assert.Empty(t, res.Reason)
	})

	t.Run("below minimum reports shortfall without raising", func(t *testing.T) {
		res := ValidateSiteSelection(3, 5, 10)
		assert.False(t, res.IsValid)
		assert.Equal(t, 2, res.Shortfall)
		assert.Contains(t, res.Reason, "below the required minimum")
	})

	t.Run("more sites than exist", func(t *testing.T) {
		res := ValidateSiteSelection(11, 5, 10)
		assert.False(t, res.IsValid)
		assert.Contains(t, res.Reason, "only 10 exist")
	})
}
