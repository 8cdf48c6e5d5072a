package workflow

import (
	"fmt"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
)

// AuditStateMachine is the audit-specific state machine: the canonical
// transition table, role-based permissions, and the business-rule guards
// wired onto their edges. It owns the audit's Status field for the
// duration of a transition and reads nothing else from the record; all
// related data arrives through the Snapshot.
type AuditStateMachine struct {
	audit   *models.Audit
	machine *StateMachine
}

// NewAuditStateMachine builds the machine for one audit and one snapshot.
// The snapshot must describe the same audit; it is captured once so every
// guard evaluates a consistent view.
func NewAuditStateMachine(audit *models.Audit, snap Snapshot) *AuditStateMachine {
	m := NewStateMachine(
		func() string { return audit.Status },
		func(s string) { audit.Status = s },
		AuditTransitions,
	)
	m.SetPermissionChecker(auditPermission)
	for e, guards := range auditGuardTable {
		for _, g := range guards {
			m.AddGuard(e.from, e.to, g.bind(snap))
		}
	}
	return &AuditStateMachine{audit: audit, machine: m}
}

// auditPermission implements the role rules: CB admins may perform any
// transition; the three decision edges additionally admit designated
// decision makers; lead auditors may perform everything except decision
// edges; plain auditors and anonymous callers are read-only.
func auditPermission(actor *Actor, from, to string) bool {
	if actor.HasRole(models.RoleCBAdmin) {
		return true
	}
	if decisionEdges[edge{from, to}] {
		return actor.HasRole(models.RoleDecisionMaker)
	}
	return actor.HasRole(models.RoleLeadAuditor)
}

// CurrentState returns the audit's current status.
func (m *AuditStateMachine) CurrentState() string {
	return m.machine.CurrentState()
}

// SetApplyHook installs the persistence callback for Transition.
func (m *AuditStateMachine) SetApplyHook(fn ApplyHook) {
	m.machine.SetApplyHook(fn)
}

// ensureKnown distinguishes a usage error (nobody should ever pass an
// unknown status code) from a business rejection.
func (m *AuditStateMachine) ensureKnown(target string) error {
	if !IsKnownStatus(target) {
		return fmt.Errorf("%w: %q", ErrUnknownState, target)
	}
	return nil
}

// Check reports whether the transition would be allowed, with the
// refusing reason when it would not. err is non-nil only for unknown
// target statuses.
func (m *AuditStateMachine) Check(target string, actor *Actor) (bool, string, error) {
	if err := m.ensureKnown(target); err != nil {
		return false, "", err
	}
	if verr := m.machine.Check(target, actor); verr != nil {
		return false, verr.Reason, nil
	}
	return true, "", nil
}

// Transition validates and applies the status change; on success the
// audit's Status field holds the target and the apply hook has run.
func (m *AuditStateMachine) Transition(target string, actor *Actor, notes string) error {
	if err := m.ensureKnown(target); err != nil {
		return err
	}
	return m.machine.Transition(target, actor, notes)
}

// AvailableTransitions lists the edges leaving the current status that
// the actor is authorized for, as (code, label) pairs. Guards are not
// consulted; see StateMachine.AvailableTransitions.
func (m *AuditStateMachine) AvailableTransitions(actor *Actor) []StatusOption {
	out := make([]StatusOption, 0)
	for _, code := range m.machine.AvailableTransitions(actor) {
		out = append(out, StatusOption{Code: code, Label: StatusLabels[code]})
	}
	return out
}

// StatusOption is a selectable target status for UI affordances.
type StatusOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}
