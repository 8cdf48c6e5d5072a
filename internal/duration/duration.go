// Package duration computes IAF MD5 minimum audit durations from
// organization size and complexity factors and validates a planned
// duration against the computed minimum. All functions are pure.
package duration

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidEmployeeCount = errors.New("employee count must be at least 1")

// Scope variation levels recognized by the complexity calculation.
const (
	ScopeUniform  = "uniform"
	ScopeModerate = "moderate"
	ScopeHigh     = "high"
)

// Process complexity levels.
const (
	ProcessSimple   = "simple"
	ProcessStandard = "standard"
	ProcessComplex  = "complex"
)

// Regulatory environment levels.
const (
	RegulatoryLow      = "low"
	RegulatoryStandard = "standard"
	RegulatoryHigh     = "high"
)

// Severity of a duration shortfall.
const (
	SeverityCompliant = "compliant"
	SeverityWarning   = "warning"
	SeverityCritical  = "critical"
)

// warningShortfallHours is the largest shortfall still classified as a
// warning rather than critical.
const warningShortfallHours = 2.0

// surveillanceReduction is the IAF MD5 duration reduction applied to
// surveillance and recertification cycles relative to initial certification.
const surveillanceReduction = 0.67

type band struct {
	min   int
	max   int
	hours float64
}

// baseDurationTable maps employee-count bands to minimum audit hours,
// derived from the IAF MD5 QMS audit time chart. Bands are contiguous and
// the hours column is strictly increasing.
var baseDurationTable = []band{
	{1, 5, 3.5},
	{6, 10, 6.0},
	{11, 15, 8.0},
	{16, 25, 10.0},
	{26, 45, 13.0},
	{46, 65, 16.0},
	{66, 85, 18.0},
	{86, 125, 21.0},
	{126, 175, 24.0},
	{176, 275, 28.0},
	{276, 425, 33.0},
	{426, 625, 39.0},
	{626, 875, 46.0},
	{876, 1175, 54.0},
	{1176, 1550, 63.0},
	{1551, 2025, 73.0},
	{2026, 2675, 84.0},
	{2676, 3450, 96.0},
	{3451, 4350, 106.0},
	{4351, 5450, 115.0},
	{5451, 6800, 124.0},
	{6801, 8500, 129.0},
	{8501, 10500, 133.0},
}

// Beyond the last band every additional 2000 employees (or part thereof)
// adds a fixed block of hours.
const (
	tableCeiling       = 10500
	tableCeilingHours  = 133.0
	extraBlockSize     = 2000
	extraHoursPerBlock = 14.0
)

// BaseDuration returns the IAF MD5 base audit hours for an organization of
// the given size. The standard code is accepted for future per-standard
// charts; every management system standard currently shares the QMS chart.
func BaseDuration(employeeCount int, standardCode string) (float64, error) {
	if employeeCount < 1 {
		return 0, ErrInvalidEmployeeCount
	}
	for _, b := range baseDurationTable {
		if employeeCount >= b.min && employeeCount <= b.max {
			return b.hours, nil
		}
	}
	blocks := math.Ceil(float64(employeeCount-tableCeiling) / extraBlockSize)
	return tableCeilingHours + blocks*extraHoursPerBlock, nil
}

// ComplexityInput collects the factors that adjust the base duration.
// Zero values mean "single uniform site, standard processes, standard
// regulatory environment".
type ComplexityInput struct {
	NumberOfSites          int
	ScopeVariation         string
	ProcessComplexity      string
	RegulatoryEnvironment  string
	HasOutsourcedProcesses bool
	PreviousMajorNCs       int
}

func (in ComplexityInput) normalized() ComplexityInput {
	if in.NumberOfSites < 1 {
		in.NumberOfSites = 1
	}
	if in.ScopeVariation == "" {
		in.ScopeVariation = ScopeUniform
	}
	if in.ProcessComplexity == "" {
		in.ProcessComplexity = ProcessStandard
	}
	if in.RegulatoryEnvironment == "" {
		in.RegulatoryEnvironment = RegulatoryStandard
	}
	return in
}

// ComplexityFactor computes the multiplier applied to the base duration,
// together with one human-readable reason per applied adjustment. The
// multiplier is clamped to [0.8, 1.3].
func ComplexityFactor(in ComplexityInput) (float64, []string) {
	in = in.normalized()

	factor := 1.0
	var reasons []string

	if in.NumberOfSites > 1 {
		adj := 0.05 * float64(in.NumberOfSites-1)
		if adj > 0.15 {
			adj = 0.15
		}
		factor += adj
		reasons = append(reasons, fmt.Sprintf("multi-site organization (%d sites): +%.0f%%", in.NumberOfSites, adj*100))
	}

	switch in.ScopeVariation {
	case ScopeHigh:
		factor += 0.10
		reasons = append(reasons, "high scope variation between sites: +10%")
	case ScopeModerate:
		factor += 0.05
		reasons = append(reasons, "moderate scope variation between sites: +5%")
	}

	switch in.ProcessComplexity {
	case ProcessComplex:
		factor += 0.15
		reasons = append(reasons, "complex processes: +15%")
	case ProcessSimple:
		factor -= 0.10
		reasons = append(reasons, "simple processes: -10%")
	}

	switch in.RegulatoryEnvironment {
	case RegulatoryHigh:
		factor += 0.10
		reasons = append(reasons, "high regulatory environment: +10%")
	case RegulatoryLow:
		factor -= 0.05
		reasons = append(reasons, "low regulatory environment: -5%")
	}

	if in.HasOutsourcedProcesses {
		factor += 0.08
		reasons = append(reasons, "outsourced processes require additional verification: +8%")
	}

	if in.PreviousMajorNCs >= 3 {
		factor += 0.10
		reasons = append(reasons, fmt.Sprintf("history of %d major nonconformities: +10%%", in.PreviousMajorNCs))
	}

	if factor < 0.8 {
		factor = 0.8
	}
	if factor > 1.3 {
		factor = 1.3
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no complexity adjustments applied")
	}
	return factor, reasons
}

// ValidationInput describes a planned audit to validate against IAF MD5.
type ValidationInput struct {
	PlannedHours           float64
	EmployeeCount          int
	StandardCode           string
	IsInitialCertification bool
	Complexity             ComplexityInput
}

// Result carries the full duration calculation so callers can display the
// breakdown as well as gate on validity. Results are never persisted.
type Result struct {
	IsValid          bool     `json:"is_valid"`
	Severity         string   `json:"severity"`
	BaseDuration     float64  `json:"base_duration"`
	ComplexityFactor float64  `json:"complexity_factor"`
	AdjustedDuration float64  `json:"adjusted_duration"`
	RequiredMinimum  float64  `json:"required_minimum"`
	PlannedHours     float64  `json:"planned_hours"`
	ShortfallHours   float64  `json:"shortfall_hours"`
	Adjustments      []string `json:"adjustments"`
	Recommendation   string   `json:"recommendation"`
}

// ValidateAuditDuration computes the IAF MD5 minimum for the described
// audit and compares the planned duration against it.
func ValidateAuditDuration(in ValidationInput) (Result, error) {
	standard := in.StandardCode
	if standard == "" {
		standard = "ISO 9001"
	}

	base, err := BaseDuration(in.EmployeeCount, standard)
	if err != nil {
		return Result{}, err
	}

	factor, reasons := ComplexityFactor(in.Complexity)
	adjusted := base * factor

	if !in.IsInitialCertification {
		adjusted *= surveillanceReduction
		reasons = append(reasons, "surveillance/recertification cycle reduction: x0.67")
	}

	required := roundToHalfHour(adjusted)
	shortfall := required - in.PlannedHours
	if shortfall < 0 {
		shortfall = 0
	}

	res := Result{
		IsValid:          shortfall == 0,
		BaseDuration:     base,
		ComplexityFactor: factor,
		AdjustedDuration: adjusted,
		RequiredMinimum:  required,
		PlannedHours:     in.PlannedHours,
		ShortfallHours:   shortfall,
		Adjustments:      reasons,
	}

	switch {
	case res.IsValid:
		res.Severity = SeverityCompliant
		res.Recommendation = fmt.Sprintf("Planned duration of %.1f hours meets the IAF MD5 minimum of %.1f hours.", in.PlannedHours, required)
	case shortfall <= warningShortfallHours:
		res.Severity = SeverityWarning
		res.Recommendation = fmt.Sprintf("Planned duration is %.1f hours below the IAF MD5 minimum of %.1f hours; extend the audit plan or document a justified reduction.", shortfall, required)
	default:
		res.Severity = SeverityCritical
		res.Recommendation = fmt.Sprintf("Planned duration is %.1f hours below the IAF MD5 minimum of %.1f hours; the audit plan does not support a credible certification decision.", shortfall, required)
	}
	return res, nil
}

// roundToHalfHour rounds to the nearest 0.5 hour increment.
func roundToHalfHour(hours float64) float64 {
	return math.Round(hours*2) / 2
}
