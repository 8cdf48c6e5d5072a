package workflow

import (
	"testing"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	cbAdmin       = &Actor{ID: 1, Roles: []string{models.RoleCBAdmin}}
	decisionMaker = &Actor{ID: 2, Roles: []string{models.RoleDecisionMaker}}
	leadAuditor   = &Actor{ID: 3, Roles: []string{models.RoleLeadAuditor}}
	plainAuditor  = &Actor{ID: 4, Roles: []string{models.RoleAuditor}}
)

// cleanSnapshot satisfies every guard.
func cleanSnapshot(auditType string) Snapshot {
	return Snapshot{
		AuditType:               auditType,
		FindingCount:            1,
		TechnicalReviewApproved: true,
		CompletedStage1Exists:   true,
		ActiveCertifications:    1,
	}
}

func TestAuditStateMachine_RoleSymmetry(t *testing.T) {
	for from, targets := range AuditTransitions {
		for _, to := range targets {
			t.Run(from+"_to_"+to, func(t *testing.T) {
				// CB admin can execute every edge when guards pass.
				audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: from}
				m := NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))
				assert.NoError(t, m.Transition(to, cbAdmin, ""))
				assert.Equal(t, to, audit.Status)

				// A plain auditor can never execute any edge.
				audit = &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: from}
				m = NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))
				err := m.Transition(to, plainAuditor, "")
				assert.ErrorIs(t, err, ErrPermissionDenied)
				assert.Equal(t, from, audit.Status)

				// Unauthenticated callers are always denied.
				audit = &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: from}
				m = NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))
				assert.ErrorIs(t, m.Transition(to, nil, ""), ErrPermissionDenied)
			})
		}
	}
}

func TestAuditStateMachine_DecisionSeparation(t *testing.T) {
	decisions := []struct{ from, to string }{
		{StatusDecisionPending, StatusDecided},
		{StatusDecisionPending, StatusClosed},
		{StatusDecided, StatusClosed},
	}

	for _, d := range decisions {
		t.Run(d.from+"_to_"+d.to, func(t *testing.T) {
			audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: d.from}
			m := NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))

			// Lead auditors must not make certification decisions.
			err := m.Transition(d.to, leadAuditor, "")
			assert.ErrorIs(t, err, ErrPermissionDenied)
			assert.Equal(t, d.from, audit.Status)

			// Designated decision makers may.
			assert.NoError(t, m.Transition(d.to, decisionMaker, ""))
			assert.Equal(t, d.to, audit.Status)
		})
	}

	t.Run("lead auditor may perform clerical edges and the corrections loop", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: StatusClientReview}
		m := NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))

		assert.NoError(t, m.Transition(StatusReportDraft, leadAuditor, "corrections requested"))
		assert.Equal(t, StatusReportDraft, audit.Status)
	})

	t.Run("decision maker cannot perform clerical edges", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: StatusDraft}
		m := NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))

		assert.ErrorIs(t, m.Transition(StatusScheduled, decisionMaker, ""), ErrPermissionDenied)
	})
}

func TestAuditStateMachine_GuardWiring(t *testing.T) {
	t.Run("report draft needs a finding", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: StatusInProgress}
		snap := cleanSnapshot(models.AuditTypeStage1)
		snap.FindingCount = 0
		m := NewAuditStateMachine(audit, snap)

		err := m.Transition(StatusReportDraft, leadAuditor, "")
		assert.ErrorIs(t, err, ErrGuardFailed)
		assert.Contains(t, err.Error(), "at least one finding")
	})

	t.Run("open major NC blocks submission until the client responds", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: StatusClientReview}
		snap := cleanSnapshot(models.AuditTypeStage1)
		snap.MajorNCsAwaitingResponse = 1
		m := NewAuditStateMachine(audit, snap)

		err := m.Transition(StatusSubmitted, leadAuditor, "")
		assert.ErrorIs(t, err, ErrGuardFailed)
		assert.Contains(t, err.Error(), "missing client response")
		assert.Equal(t, StatusClientReview, audit.Status)

		// After the client responds the same transition succeeds.
		snap.MajorNCsAwaitingResponse = 0
		m = NewAuditStateMachine(audit, snap)
		assert.NoError(t, m.Transition(StatusSubmitted, leadAuditor, ""))
		assert.Equal(t, StatusSubmitted, audit.Status)
	})

	t.Run("closure blocked while NCs unresolved", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: StatusDecisionPending}
		snap := cleanSnapshot(models.AuditTypeStage1)
		snap.UnresolvedNCs = 2
		m := NewAuditStateMachine(audit, snap)

		err := m.Transition(StatusClosed, cbAdmin, "")
		assert.ErrorIs(t, err, ErrGuardFailed)
		assert.Contains(t, err.Error(), "still open")
	})

	t.Run("stage2 decision requires completed stage1", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage2, Status: StatusDecisionPending}
		snap := cleanSnapshot(models.AuditTypeStage2)
		snap.CompletedStage1Exists = false
		m := NewAuditStateMachine(audit, snap)

		err := m.Transition(StatusDecided, cbAdmin, "")
		assert.ErrorIs(t, err, ErrGuardFailed)
		assert.Contains(t, err.Error(), "requires a completed Stage 1")
	})

	t.Run("surveillance closure requires an active certification", func(t *testing.T) {
		audit := &models.Audit{ID: 1, AuditType: models.AuditTypeSurveillance, Status: StatusDecided}
		snap := cleanSnapshot(models.AuditTypeSurveillance)
		snap.ActiveCertifications = 0
		m := NewAuditStateMachine(audit, snap)

		err := m.Transition(StatusClosed, cbAdmin, "")
		assert.ErrorIs(t, err, ErrGuardFailed)
		assert.Contains(t, err.Error(), "active certification(s)")
	})
}

func TestAuditStateMachine_UnknownStatus(t *testing.T) {
	audit := &models.Audit{ID: 1, AuditType: models.AuditTypeStage1, Status: StatusDraft}
	m := NewAuditStateMachine(audit, cleanSnapshot(models.AuditTypeStage1))

	_, _, err := m.Check("submitted_to_cb", cbAdmin)
	assert.ErrorIs(t, err, ErrUnknownState)

	assert.ErrorIs(t, m.Transition("nonsense", cbAdmin, ""), ErrUnknownState)
	assert.Equal(t, StatusDraft, audit.Status)
}
