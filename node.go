package behaviortree

import "github.com/Lecrapouille/BehaviorTree-sub000/blackboard"

// Kind identifies a node variant. The same strings are the discriminator
// keys of the construction document, so the builder and the exporter share
// a single vocabulary with the engine.
type Kind string

const (
	KindSequence         Kind = "sequence"
	KindReactiveSequence Kind = "reactive_sequence"
	KindStatefulSequence Kind = "stateful_sequence"
	KindSelector         Kind = "selector"
	KindReactiveSelector Kind = "reactive_selector"
	KindStatefulSelector Kind = "stateful_selector"
	KindParallel         Kind = "parallel"
	KindParallelAll      Kind = "parallel_all"
	KindInverter         Kind = "inverter"
	KindForceSuccess     Kind = "force_success"
	KindForceFailure     Kind = "force_failure"
	KindRepeat           Kind = "repeat"
	KindRetry            Kind = "retry"
	KindUntilSuccess     Kind = "until_success"
	KindUntilFailure     Kind = "until_failure"
	KindAction           Kind = "action"
	KindCondition        Kind = "condition"
	KindSuccess          Kind = "success"
	KindFailure          Kind = "failure"
	KindTree             Kind = "behavior_tree"
)

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Node is a single behavior tree node: a leaf, a decorator, a composite, or
// the Tree itself. The hierarchy is closed; host applications extend the
// engine through Action and Condition callables registered on a Factory,
// not by implementing Node.
//
// Status transitions happen only inside Tick. A node reports StatusInvalid
// before its first tick and after Reset.
type Node interface {
	// Name returns the node's display name. Names are not unique.
	Name() string
	// Kind returns the node's variant discriminator.
	Kind() Kind
	// Status returns the outcome of the most recent tick, or StatusInvalid
	// if the node has not been ticked since creation or Reset.
	Status() Status
	// Children returns the node's ordered children: none for leaves, one
	// for decorators, one or more for composites. Walkers must not mutate
	// the returned slice.
	Children() []Node
	// Params returns the node's kind-specific configuration keyed by the
	// document schema (e.g. "times" for repeat), or nil when the kind has
	// none. Used by the exporter.
	Params() map[string]any
	// IsValid reports whether the node's structure is complete: composites
	// need at least one valid child, decorators exactly one, leaves a
	// non-nil callable.
	IsValid() bool
	// Tick runs one synchronous evaluation pass and returns the resulting
	// status. See the package documentation for the hook contract.
	Tick() Status
	// Reset forces the node and its descendants back to StatusInvalid, so
	// the next tick runs setup again.
	Reset()
}

// BlackboardHolder is implemented by nodes that read or write a shared
// blackboard while ticking. Tree.AttachBlackboard uses it to hand the
// board to every interested node in one pass.
type BlackboardHolder interface {
	AttachBlackboard(bb *blackboard.Blackboard)
}

// behavior is the hook set every concrete node kind provides. The shared
// tick driver in node.Tick calls the hooks in contract order; kinds differ
// only in what the hooks do.
type behavior interface {
	// onSetUp runs when the previous status was not StatusRunning. It
	// returns the status to start the tick from; returning StatusFailure
	// vetoes execution before onRunning.
	onSetUp() Status
	// onRunning performs the node's work for this tick.
	onRunning() Status
	// onTearDown runs when the tick resolved to a non-running status.
	onTearDown(Status)
}

// node is the embedded base of every concrete kind: identity, current
// status, child list, and the tick driver. The self field holds the outer
// value so the driver dispatches to the kind's hooks.
type node struct {
	name     string
	kind     Kind
	status   Status
	self     behavior
	children []Node
}

func newNode(kind Kind, name string, children []Node) node {
	if name == "" {
		name = string(kind)
	}
	return node{name: name, kind: kind, children: children}
}

func (n *node) Name() string     { return n.name }
func (n *node) Kind() Kind       { return n.kind }
func (n *node) Status() Status   { return n.status }
func (n *node) Children() []Node { return n.children }

// Params returns nil; kinds with configuration override it.
func (n *node) Params() map[string]any { return nil }

// IsValid reports true by default; kinds with structural requirements
// (composites, decorators, callable-wrapping leaves) override it.
func (n *node) IsValid() bool { return true }

// onSetUp is the default no-op gate: start the tick in StatusRunning.
func (n *node) onSetUp() Status { return StatusRunning }

// onTearDown is a no-op by default.
func (n *node) onTearDown(Status) {}

// Tick drives the hook contract:
//
//  1. status != Running  → onSetUp (may veto with Failure)
//  2. status != Failure  → onRunning
//  3. status != Running  → onTearDown(status)
//
// so onRunning never follows a setup failure within one tick, and teardown
// always pairs with a non-running exit.
func (n *node) Tick() Status {
	if n.status != StatusRunning {
		n.status = n.self.onSetUp()
	}
	if n.status != StatusFailure {
		n.status = n.self.onRunning()
	}
	if n.status != StatusRunning {
		n.self.onTearDown(n.status)
	}
	return n.status
}

// Reset forces the node and all descendants back to StatusInvalid.
func (n *node) Reset() {
	n.status = StatusInvalid
	for _, child := range n.children {
		child.Reset()
	}
}
