// Package workflow contains the audit status workflow engine: a generic
// finite-state-machine primitive, the audit-specific machine built on top
// of it, and the thin facade the service layer calls.
package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying why a transition was refused. The concrete
// reason travels in the ValidationError wrapping them.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrGuardFailed       = errors.New("business rule failed")
	ErrUnknownState      = errors.New("unknown state")
)

// ValidationError carries the human-readable reason a transition was
// refused. Unwrap yields one of the sentinel errors above so callers can
// classify without parsing the message.
type ValidationError struct {
	Err    error
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
func (e *ValidationError) Unwrap() error { return e.Err }

func validationErr(kind error, reason string) *ValidationError {
	return &ValidationError{Err: kind, Reason: reason}
}

// Actor is whoever attempts a transition. Role tags come from an injected
// RoleProvider so the engine never touches the identity system directly.
// A nil *Actor means an unauthenticated caller.
type Actor struct {
	ID    uint
	Roles []string
}

// HasRole reports whether the actor holds the given role tag.
func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleProvider resolves the closed set of role tags held by a user.
type RoleProvider interface {
	ActorFor(userID uint) (*Actor, error)
}

// GuardFunc is a business-rule predicate for one transition edge. It
// reports whether the transition may proceed and, if not, a human-readable
// reason. Guards never mutate state and never return errors; rejection is
// a value, not an exception.
type GuardFunc func(from, to string) (ok bool, reason string)

// Guard is a named guard so failures can be attributed in logs and metrics.
type Guard struct {
	Name  string
	Check GuardFunc
}

// PermissionChecker authorizes an actor for one transition edge.
type PermissionChecker func(actor *Actor, from, to string) bool

// ApplyHook runs after the state setter during Transition, inside the
// caller's storage transaction. Persisting the new state and appending the
// audit-trail entry belong here, so both commit or neither does.
type ApplyHook func(from, to string, actor *Actor, notes string) error

type edge struct {
	from, to string
}

// StateMachine is a reusable transition validator for any object exposing
// its state through a getter and setter pair. The transition table maps
// each state to the states directly reachable from it.
type StateMachine struct {
	getState    func() string
	setState    func(string)
	transitions map[string][]string
	permission  PermissionChecker
	guards      map[edge][]Guard
	onApply     ApplyHook
}

// NewStateMachine builds a machine over the supplied accessors and table.
func NewStateMachine(getState func() string, setState func(string), transitions map[string][]string) *StateMachine {
	return &StateMachine{
		getState:    getState,
		setState:    setState,
		transitions: transitions,
		guards:      make(map[edge][]Guard),
	}
}

// SetPermissionChecker installs the permission hook. Without one, every
// actor is authorized.
func (m *StateMachine) SetPermissionChecker(fn PermissionChecker) {
	m.permission = fn
}

// AddGuard appends a named guard to the given edge. Guards run in
// registration order and the first failure aborts the transition.
func (m *StateMachine) AddGuard(from, to string, g Guard) {
	k := edge{from, to}
	m.guards[k] = append(m.guards[k], g)
}

// SetApplyHook installs the persistence callback invoked once a
// transition has passed every check.
func (m *StateMachine) SetApplyHook(fn ApplyHook) {
	m.onApply = fn
}

// CurrentState returns the object's current state.
func (m *StateMachine) CurrentState() string {
	return m.getState()
}

// IsValidTransition reports whether newState is directly reachable from
// the current state per the transition table.
func (m *StateMachine) IsValidTransition(newState string) bool {
	for _, s := range m.transitions[m.CurrentState()] {
		if s == newState {
			return true
		}
	}
	return false
}

// Check runs the full validation chain for a transition without applying
// it: table lookup, then permission, then guards. Permission runs before
// guards on purpose; it is cheap, while guards may aggregate over large
// collections. Returns nil if the transition would be allowed.
func (m *StateMachine) Check(newState string, actor *Actor) *ValidationError {
	current := m.CurrentState()
	if !m.IsValidTransition(newState) {
		return validationErr(ErrInvalidTransition, fmt.Sprintf("Invalid transition from %s to %s", current, newState))
	}
	if m.permission != nil && !m.permission(actor, current, newState) {
		return validationErr(ErrPermissionDenied, fmt.Sprintf("not authorized to move audit from %s to %s", current, newState))
	}
	for _, g := range m.guards[edge{current, newState}] {
		if ok, reason := g.Check(current, newState); !ok {
			return validationErr(ErrGuardFailed, reason)
		}
	}
	return nil
}

// Transition validates and applies a state change. On any failure the
// object's state is untouched and a ValidationError is returned. The
// apply hook runs before the in-memory setter so a storage failure
// leaves the object unchanged alongside the rolled-back transaction.
func (m *StateMachine) Transition(newState string, actor *Actor, notes string) error {
	current := m.CurrentState()
	if verr := m.Check(newState, actor); verr != nil {
		return verr
	}
	if m.onApply != nil {
		if err := m.onApply(current, newState, actor, notes); err != nil {
			return err
		}
	}
	m.setState(newState)
	return nil
}

// AvailableTransitions lists the states reachable from the current state
// for which the actor is authorized. Guards are deliberately not
// evaluated here: this answers "could a sufficiently privileged,
// rule-satisfying caller move here" for UI affordances, without running
// potentially expensive rule queries just to render a menu. An attempted
// transition can therefore still fail on a guard.
func (m *StateMachine) AvailableTransitions(actor *Actor) []string {
	current := m.CurrentState()
	out := make([]string, 0)
	for _, s := range m.transitions[current] {
		if m.permission != nil && !m.permission(actor, current, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
