package behaviortree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Lecrapouille/BehaviorTree-sub000/blackboard"
)

// Tree is the root holder of a behavior tree. It is itself a Node:
// ticking the tree drives the hook contract on the tree and delegates the
// work to the exclusively owned root. Each tree carries a unique instance
// id used by logs and the visualizer.
type Tree struct {
	node
	id uuid.UUID
	bb *blackboard.Blackboard
}

var (
	_ Node             = (*Tree)(nil)
	_ behavior         = (*Tree)(nil)
	_ BlackboardHolder = (*Tree)(nil)
)

// NewTree creates a tree named name over root. root may be nil and set
// later with SetRoot; the tree is invalid until it has a valid root.
func NewTree(name string, root Node) *Tree {
	t := &Tree{node: newNode(KindTree, name, nil), id: uuid.New()}
	t.self = t
	t.SetRoot(root)
	return t
}

// ID returns the tree's unique instance id.
func (t *Tree) ID() uuid.UUID { return t.id }

// Root returns the tree's root node, or nil.
func (t *Tree) Root() Node {
	if len(t.children) == 0 {
		return nil
	}
	return t.children[0]
}

// SetRoot replaces the tree's root. An attached blackboard is handed to
// the new root's subtree.
func (t *Tree) SetRoot(root Node) {
	if root == nil {
		t.children = nil
		return
	}
	t.children = []Node{root}
	if t.bb != nil {
		attachBlackboard(root, t.bb)
	}
}

// IsValid reports whether the tree has a valid root.
func (t *Tree) IsValid() bool {
	root := t.Root()
	return root != nil && root.IsValid()
}

// Blackboard returns the attached shared blackboard, or nil.
func (t *Tree) Blackboard() *blackboard.Blackboard { return t.bb }

// AttachBlackboard shares bb with every node in the tree that wants one.
// Implements BlackboardHolder.
func (t *Tree) AttachBlackboard(bb *blackboard.Blackboard) {
	t.bb = bb
	if root := t.Root(); root != nil {
		attachBlackboard(root, bb)
	}
}

func attachBlackboard(n Node, bb *blackboard.Blackboard) {
	Walk(n, func(node Node) bool {
		if holder, ok := node.(BlackboardHolder); ok {
			holder.AttachBlackboard(bb)
		}
		return true
	})
}

// String implements fmt.Stringer.
func (t *Tree) String() string {
	return fmt.Sprintf("%s (%s)", t.name, t.id)
}

func (t *Tree) onRunning() Status {
	root := t.Root()
	if root == nil {
		return StatusFailure
	}
	return root.Tick()
}

// Walk visits n and its descendants in pre-order, stopping early when
// visit returns false. It reports whether the walk ran to completion.
// Exporters and the visualizer rely on this order for stable node ids.
func Walk(n Node, visit func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, child := range n.Children() {
		if !Walk(child, visit) {
			return false
		}
	}
	return true
}
