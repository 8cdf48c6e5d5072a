package workflow

import (
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
)

// AuditWorkflow is the facade the service layer talks to. It delegates
// entirely to the audit state machine; it exists so callers depend on a
// three-method surface rather than on machine internals.
type AuditWorkflow struct {
	machine *AuditStateMachine
}

// NewAuditWorkflow builds the workflow for one audit and its snapshot.
func NewAuditWorkflow(audit *models.Audit, snap Snapshot) *AuditWorkflow {
	return &AuditWorkflow{machine: NewAuditStateMachine(audit, snap)}
}

// OnApply installs the persistence callback run inside Transition after
// all checks pass. The caller supplies the transaction scope.
func (w *AuditWorkflow) OnApply(fn ApplyHook) {
	w.machine.SetApplyHook(fn)
}

// CurrentState returns the audit's current status.
func (w *AuditWorkflow) CurrentState() string {
	return w.machine.CurrentState()
}

// CanTransition reports whether the actor could move the audit to target
// right now, with the refusing reason otherwise. It never mutates the
// audit and returns an error only for unknown target statuses.
func (w *AuditWorkflow) CanTransition(target string, actor *Actor) (bool, string, error) {
	return w.machine.Check(target, actor)
}

// Transition validates and applies the status change.
func (w *AuditWorkflow) Transition(target string, actor *Actor, notes string) error {
	return w.machine.Transition(target, actor, notes)
}

// AvailableTransitions lists the authorized target statuses as
// (code, label) pairs, in transition-table order.
func (w *AuditWorkflow) AvailableTransitions(actor *Actor) []StatusOption {
	return w.machine.AvailableTransitions(actor)
}
