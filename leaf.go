package behaviortree

import (
	"fmt"

	"github.com/Lecrapouille/BehaviorTree-sub000/blackboard"
)

// ActionFunc is a host-supplied behavior callable. It receives the shared
// blackboard (nil when none is attached) and returns the tick outcome.
// Returning an error resolves the tick to StatusFailure; the error is
// retained on the node and never propagated through the tick path.
type ActionFunc func(bb *blackboard.Blackboard) (Status, error)

// ConditionFunc is a host-supplied predicate evaluated each tick.
type ConditionFunc func(bb *blackboard.Blackboard) bool

// Action is a leaf that runs a host-supplied callable each tick.
type Action struct {
	node
	fn  ActionFunc
	bb  *blackboard.Blackboard
	err error
}

var (
	_ Node             = (*Action)(nil)
	_ behavior         = (*Action)(nil)
	_ BlackboardHolder = (*Action)(nil)
)

// NewAction creates an action leaf. An empty name defaults to "action".
func NewAction(name string, fn ActionFunc) *Action {
	a := &Action{node: newNode(KindAction, name, nil), fn: fn}
	a.self = a
	return a
}

// IsValid reports whether the action wraps a callable.
func (a *Action) IsValid() bool { return a.fn != nil }

// AttachBlackboard implements BlackboardHolder.
func (a *Action) AttachBlackboard(bb *blackboard.Blackboard) { a.bb = bb }

// Err returns the error from the most recent tick that resolved to
// StatusFailure because the callable returned an error or panicked, or nil.
func (a *Action) Err() error { return a.err }

func (a *Action) onRunning() (status Status) {
	// A faulting callable fails this tick only; the host loop keeps
	// control even when user code panics.
	defer func() {
		if r := recover(); r != nil {
			a.err = fmt.Errorf("action %q panicked: %v", a.name, r)
			status = StatusFailure
		}
	}()
	a.err = nil
	if a.fn == nil {
		a.err = fmt.Errorf("action %q has no callable", a.name)
		return StatusFailure
	}
	result, err := a.fn(a.bb)
	if err != nil {
		a.err = fmt.Errorf("action %q: %w", a.name, err)
		return StatusFailure
	}
	switch result {
	case StatusRunning, StatusSuccess, StatusFailure:
		return result
	default:
		a.err = fmt.Errorf("action %q returned status %v", a.name, result)
		return StatusFailure
	}
}

// Condition is a leaf that evaluates a host-supplied predicate each tick:
// StatusSuccess when it holds, StatusFailure otherwise. Conditions never
// report StatusRunning.
type Condition struct {
	node
	fn ConditionFunc
	bb *blackboard.Blackboard
}

var (
	_ Node             = (*Condition)(nil)
	_ behavior         = (*Condition)(nil)
	_ BlackboardHolder = (*Condition)(nil)
)

// NewCondition creates a condition leaf. An empty name defaults to
// "condition".
func NewCondition(name string, fn ConditionFunc) *Condition {
	c := &Condition{node: newNode(KindCondition, name, nil), fn: fn}
	c.self = c
	return c
}

// IsValid reports whether the condition wraps a predicate.
func (c *Condition) IsValid() bool { return c.fn != nil }

// AttachBlackboard implements BlackboardHolder.
func (c *Condition) AttachBlackboard(bb *blackboard.Blackboard) { c.bb = bb }

func (c *Condition) onRunning() Status {
	if c.fn != nil && c.fn(c.bb) {
		return StatusSuccess
	}
	return StatusFailure
}

// Success is a constant leaf that always resolves to StatusSuccess.
type Success struct{ node }

var (
	_ Node     = (*Success)(nil)
	_ behavior = (*Success)(nil)
)

// NewSuccess creates a constant success leaf.
func NewSuccess(name string) *Success {
	s := &Success{node: newNode(KindSuccess, name, nil)}
	s.self = s
	return s
}

func (s *Success) onRunning() Status { return StatusSuccess }

// Failure is a constant leaf that always resolves to StatusFailure.
type Failure struct{ node }

var (
	_ Node     = (*Failure)(nil)
	_ behavior = (*Failure)(nil)
)

// NewFailure creates a constant failure leaf.
func NewFailure(name string) *Failure {
	f := &Failure{node: newNode(KindFailure, name, nil)}
	f.self = f
	return f
}

func (f *Failure) onRunning() Status { return StatusFailure }
