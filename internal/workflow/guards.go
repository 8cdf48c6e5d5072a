package workflow

import (
	"fmt"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
)

// Snapshot is the read-only view of an audit and its related records that
// the business-rule guards evaluate. The service layer assembles it from
// storage before running a transition; guards themselves never query.
type Snapshot struct {
	AuditID   uint
	AuditType string

	// FindingCount is the total number of recorded findings of any type.
	FindingCount int

	// MajorNCsAwaitingResponse counts major nonconformities whose
	// verification status is still open (no client response).
	MajorNCsAwaitingResponse int

	// UnresolvedNCs counts nonconformities that are neither accepted nor
	// closed, regardless of category.
	UnresolvedNCs int

	TechnicalReviewApproved bool

	// CompletedStage1Exists is true when a stage1 audit for the same
	// organization reached decided or closed.
	CompletedStage1Exists bool

	// ActiveCertifications counts the organization's certificates with
	// status active.
	ActiveCertifications int
}

// SnapshotGuard is a named, pure predicate over a transition edge and an
// audit snapshot. Each rule is registered independently so it can be
// tested in isolation.
type SnapshotGuard struct {
	Name  string
	Check func(from, to string, snap Snapshot) (bool, string)
}

// bind adapts a SnapshotGuard to the generic machine by closing over the
// snapshot.
func (g SnapshotGuard) bind(snap Snapshot) Guard {
	return Guard{
		Name: g.Name,
		Check: func(from, to string) (bool, string) {
			return g.Check(from, to, snap)
		},
	}
}

// GuardFindingsRecorded requires at least one finding before a report can
// be drafted.
var GuardFindingsRecorded = SnapshotGuard{
	Name: "findings_recorded",
	Check: func(_, _ string, snap Snapshot) (bool, string) {
		if snap.FindingCount == 0 {
			return false, "cannot draft the report: the audit must record at least one finding (nonconformity, observation, or OFI)"
		}
		return true, ""
	},
}

// GuardMajorNCResponses blocks leaving client review while any major
// nonconformity has no client response. Minor nonconformities never block
// this edge.
var GuardMajorNCResponses = SnapshotGuard{
	Name: "major_nc_responses",
	Check: func(_, _ string, snap Snapshot) (bool, string) {
		if n := snap.MajorNCsAwaitingResponse; n > 0 {
			return false, fmt.Sprintf("%d major nonconformity(ies) missing client response", n)
		}
		return true, ""
	},
}

// GuardTechnicalReviewApproved requires an approved technical review
// before the file proceeds to technical review routing.
var GuardTechnicalReviewApproved = SnapshotGuard{
	Name: "technical_review_approved",
	Check: func(_, _ string, snap Snapshot) (bool, string) {
		if !snap.TechnicalReviewApproved {
			return false, "an approved technical review is required before submission proceeds"
		}
		return true, ""
	},
}

// GuardNCsResolved blocks closure while any nonconformity is still open
// or merely responded to; only accepted and closed count as resolved.
var GuardNCsResolved = SnapshotGuard{
	Name: "ncs_resolved",
	Check: func(_, _ string, snap Snapshot) (bool, string) {
		if n := snap.UnresolvedNCs; n > 0 {
			return false, fmt.Sprintf("%d nonconformity(ies) still open; all must be accepted or closed before closure", n)
		}
		return true, ""
	},
}

// GuardStageSequencing requires a completed Stage 1 audit before a Stage 2
// audit may move toward closure.
var GuardStageSequencing = SnapshotGuard{
	Name: "stage_sequencing",
	Check: func(_, _ string, snap Snapshot) (bool, string) {
		if snap.AuditType == models.AuditTypeStage2 && !snap.CompletedStage1Exists {
			return false, "Stage 2 audit requires a completed Stage 1 audit for the same organization"
		}
		return true, ""
	},
}

// GuardActiveCertification requires the organization to hold an active
// certification before a surveillance or recertification audit closes.
var GuardActiveCertification = SnapshotGuard{
	Name: "active_certification",
	Check: func(_, _ string, snap Snapshot) (bool, string) {
		if snap.AuditType != models.AuditTypeSurveillance && snap.AuditType != models.AuditTypeRecertification {
			return true, ""
		}
		if snap.ActiveCertifications == 0 {
			return false, fmt.Sprintf("%s audit requires active certification(s) for the organization", snap.AuditType)
		}
		return true, ""
	},
}

// decisionEdges are the certification-decision transitions reserved for
// CB admins and designated decision makers (ISO 17021-1 separation of
// duties between auditing and certification decision).
var decisionEdges = map[edge]bool{
	{StatusDecisionPending, StatusDecided}: true,
	{StatusDecisionPending, StatusClosed}:  true,
	{StatusDecided, StatusClosed}:          true,
}

// auditGuardTable registers the ordered guards per transition edge. The
// major-NC gate applies leaving client_review; the technical-review gate
// applies entering technical_review; the stage-sequencing and
// active-certification gates apply on every decision edge.
var auditGuardTable = map[edge][]SnapshotGuard{
	{StatusInProgress, StatusReportDraft}:    {GuardFindingsRecorded},
	{StatusClientReview, StatusSubmitted}:    {GuardMajorNCResponses},
	{StatusSubmitted, StatusTechnicalReview}: {GuardTechnicalReviewApproved},
	{StatusDecisionPending, StatusDecided}:   {GuardStageSequencing, GuardActiveCertification},
	{StatusDecisionPending, StatusClosed}:    {GuardNCsResolved, GuardStageSequencing, GuardActiveCertification},
	{StatusDecided, StatusClosed}:            {GuardNCsResolved, GuardStageSequencing, GuardActiveCertification},
}
