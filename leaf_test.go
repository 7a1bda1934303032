package behaviortree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lecrapouille/BehaviorTree-sub000/blackboard"
)

func TestAction(t *testing.T) {
	t.Run("ReturnsCallableStatus", func(t *testing.T) {
		a := NewAction("work", func(*blackboard.Blackboard) (Status, error) {
			return StatusRunning, nil
		})
		assert.Equal(t, StatusRunning, a.Tick())
	})

	t.Run("ReceivesAttachedBlackboard", func(t *testing.T) {
		bb := blackboard.New()
		blackboard.Set(bb, "battery", 87)
		a := NewAction("check_battery", func(b *blackboard.Blackboard) (Status, error) {
			level, ok := blackboard.Get[int](b, "battery")
			require.True(t, ok)
			require.Equal(t, 87, level)
			return StatusSuccess, nil
		})
		a.AttachBlackboard(bb)
		assert.Equal(t, StatusSuccess, a.Tick())
	})

	t.Run("ErrorResolvesToFailure", func(t *testing.T) {
		boom := errors.New("motor stalled")
		a := NewAction("move", func(*blackboard.Blackboard) (Status, error) {
			return StatusInvalid, boom
		})
		assert.Equal(t, StatusFailure, a.Tick())
		assert.ErrorIs(t, a.Err(), boom)

		// The fault is isolated to the tick that produced it.
		a2 := NewAction("move", func(*blackboard.Blackboard) (Status, error) {
			return StatusSuccess, nil
		})
		assert.Equal(t, StatusSuccess, a2.Tick())
		assert.NoError(t, a2.Err())
	})

	t.Run("PanicResolvesToFailure", func(t *testing.T) {
		a := NewAction("explode", func(*blackboard.Blackboard) (Status, error) {
			panic("kaboom")
		})
		assert.NotPanics(t, func() {
			assert.Equal(t, StatusFailure, a.Tick())
		})
		require.Error(t, a.Err())
		assert.Contains(t, a.Err().Error(), "kaboom")
	})

	t.Run("InvalidResultStatus", func(t *testing.T) {
		a := NewAction("weird", func(*blackboard.Blackboard) (Status, error) {
			return StatusInvalid, nil
		})
		assert.Equal(t, StatusFailure, a.Tick())
		assert.Error(t, a.Err())
	})

	t.Run("Validity", func(t *testing.T) {
		assert.False(t, NewAction("empty", nil).IsValid())
		assert.True(t, NewAction("ok", func(*blackboard.Blackboard) (Status, error) {
			return StatusSuccess, nil
		}).IsValid())
	})

	t.Run("NilCallableTicksToFailure", func(t *testing.T) {
		a := NewAction("empty", nil)
		assert.Equal(t, StatusFailure, a.Tick())
		assert.Error(t, a.Err())
	})
}

func TestCondition(t *testing.T) {
	t.Run("TrueIsSuccess", func(t *testing.T) {
		c := NewCondition("ready", func(*blackboard.Blackboard) bool { return true })
		assert.Equal(t, StatusSuccess, c.Tick())
	})

	t.Run("FalseIsFailure", func(t *testing.T) {
		c := NewCondition("ready", func(*blackboard.Blackboard) bool { return false })
		assert.Equal(t, StatusFailure, c.Tick())
	})

	t.Run("Validity", func(t *testing.T) {
		assert.False(t, NewCondition("empty", nil).IsValid())
	})
}

func TestConstantLeaves(t *testing.T) {
	s := NewSuccess("")
	f := NewFailure("")
	assert.Equal(t, StatusSuccess, s.Tick())
	assert.Equal(t, StatusFailure, f.Tick())
	assert.Equal(t, "success", s.Name())
	assert.Equal(t, "failure", f.Name())
	assert.True(t, s.IsValid())
	assert.True(t, f.IsValid())
	assert.Empty(t, s.Children())
}
