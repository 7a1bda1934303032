package behaviortree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lecrapouille/BehaviorTree-sub000/blackboard"
)

func TestTreeValidity(t *testing.T) {
	assert.False(t, NewTree("empty", nil).IsValid())
	assert.False(t, NewTree("bad", NewSequence("seq")).IsValid())
	assert.True(t, NewTree("ok", newStub("root", StatusSuccess)).IsValid())
}

func TestTreeTickDelegatesToRoot(t *testing.T) {
	root := newStub("root", StatusRunning, StatusSuccess)
	tree := NewTree("tree", root)

	require.Equal(t, StatusRunning, tree.Tick())
	require.Equal(t, StatusSuccess, tree.Tick())
	assert.Equal(t, StatusSuccess, tree.Status())

	tree.Reset()
	assert.Equal(t, StatusInvalid, tree.Status())
	assert.Equal(t, StatusInvalid, root.Status())
}

func TestTreeWithoutRootFails(t *testing.T) {
	tree := NewTree("empty", nil)
	assert.Equal(t, StatusFailure, tree.Tick())
}

func TestTreeIdentity(t *testing.T) {
	a := NewTree("a", nil)
	b := NewTree("b", nil)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Contains(t, a.String(), "a")
	assert.Contains(t, a.String(), a.ID().String())
	assert.Equal(t, KindTree, a.Kind())
}

func TestTreeAttachBlackboard(t *testing.T) {
	bb := blackboard.New()
	var seen *blackboard.Blackboard
	action := NewAction("observe", func(b *blackboard.Blackboard) (Status, error) {
		seen = b
		return StatusSuccess, nil
	})
	tree := NewTree("tree", NewSequence("seq", action, NewSuccess("")))

	tree.AttachBlackboard(bb)
	require.Same(t, bb, tree.Blackboard())

	tree.Tick()
	assert.Same(t, bb, seen, "leaves receive the shared blackboard")
}

func TestTreeSetRootAttachesBlackboard(t *testing.T) {
	bb := blackboard.New()
	tree := NewTree("tree", nil)
	tree.AttachBlackboard(bb)

	var seen *blackboard.Blackboard
	tree.SetRoot(NewAction("observe", func(b *blackboard.Blackboard) (Status, error) {
		seen = b
		return StatusSuccess, nil
	}))
	tree.Tick()
	assert.Same(t, bb, seen)
}

func TestTreeBlackboardCommunication(t *testing.T) {
	// One leaf writes, a later leaf reads within the same tick.
	bb := blackboard.New()
	write := NewAction("scan", func(b *blackboard.Blackboard) (Status, error) {
		blackboard.Set(b, "target", "door")
		return StatusSuccess, nil
	})
	var got string
	read := NewAction("approach", func(b *blackboard.Blackboard) (Status, error) {
		target, ok := blackboard.Get[string](b, "target")
		if !ok {
			return StatusFailure, nil
		}
		got = target
		return StatusSuccess, nil
	})
	tree := NewTree("tree", NewSequence("seq", write, read))
	tree.AttachBlackboard(bb)

	require.Equal(t, StatusSuccess, tree.Tick())
	assert.Equal(t, "door", got)
}

func TestFactory(t *testing.T) {
	f := NewFactory().
		RegisterAction("patrol", func(*blackboard.Blackboard) (Status, error) {
			return StatusSuccess, nil
		}).
		RegisterCondition("battery_ok", func(*blackboard.Blackboard) bool { return true })

	_, ok := f.Action("patrol")
	assert.True(t, ok)
	_, ok = f.Action("battery_ok")
	assert.False(t, ok, "conditions are not actions")
	_, ok = f.Condition("battery_ok")
	assert.True(t, ok)
	_, ok = f.Condition("missing")
	assert.False(t, ok)
}
