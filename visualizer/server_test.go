package visualizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	behaviortree "github.com/Lecrapouille/BehaviorTree-sub000"
	"github.com/Lecrapouille/BehaviorTree-sub000/document"
)

func TestServerStreamsStructureThenUpdates(t *testing.T) {
	tree := behaviortree.NewTree("patrol", behaviortree.NewSequence("main",
		behaviortree.NewSuccess("a"),
		behaviortree.NewSuccess("b")))

	srv := NewServer(tree, WithInterval(time.Millisecond))
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	defer srv.Close()
	require.NotNil(t, srv.Addr())

	obs, err := Dial(srv.Addr().String(), time.Second)
	require.NoError(t, err)
	defer obs.Close()
	require.NoError(t, srv.WaitForObserver(time.Second))

	tree.Tick()
	require.NoError(t, srv.Observe())

	require.NoError(t, obs.SetDeadline(time.Now().Add(2*time.Second)))
	first, err := obs.Next()
	require.NoError(t, err)
	require.Equal(t, MessageTypeStructure, first.Type)

	// The structure document rebuilds into the same tree shape.
	rebuilt, err := document.NewBuilder(nil).Build(first.Structure)
	require.NoError(t, err)
	assert.Equal(t, behaviortree.KindSequence, rebuilt.Root().Kind())
	assert.Len(t, rebuilt.Root().Children(), 2)

	second, err := obs.Next()
	require.NoError(t, err)
	require.Equal(t, MessageTypeStateUpdate, second.Type)
	require.Len(t, second.Updates, 3, "root and both leaves ticked")

	ids := document.AssignIDs(tree)
	byID := make(map[uint32]behaviortree.Status, len(second.Updates))
	for _, entry := range second.Updates {
		byID[entry.ID] = entry.Status
	}
	behaviortree.Walk(tree.Root(), func(n behaviortree.Node) bool {
		assert.Equal(t, n.Status(), byID[ids[n]], "node %s", n.Name())
		return true
	})
}

func TestServerSkipsInvalidNodes(t *testing.T) {
	// A failing first child short-circuits the sequence: the second leaf
	// is never ticked and must not appear on the wire.
	tree := behaviortree.NewTree("t", behaviortree.NewSequence("main",
		behaviortree.NewFailure("bad"),
		behaviortree.NewSuccess("unreached")))

	srv := NewServer(tree, WithInterval(time.Millisecond))
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	defer srv.Close()

	obs, err := Dial(srv.Addr().String(), time.Second)
	require.NoError(t, err)
	defer obs.Close()
	require.NoError(t, srv.WaitForObserver(time.Second))

	tree.Tick()
	require.NoError(t, srv.Observe())

	require.NoError(t, obs.SetDeadline(time.Now().Add(2*time.Second)))
	first, err := obs.Next()
	require.NoError(t, err)
	require.Equal(t, MessageTypeStructure, first.Type)

	second, err := obs.Next()
	require.NoError(t, err)
	require.Equal(t, MessageTypeStateUpdate, second.Type)
	assert.Len(t, second.Updates, 2, "sequence and failing leaf only")
}

func TestObserveBeforeListen(t *testing.T) {
	tree := behaviortree.NewTree("t", behaviortree.NewSuccess(""))
	srv := NewServer(tree)
	assert.ErrorIs(t, srv.Observe(), ErrNotListening)
	assert.ErrorIs(t, srv.WaitForObserver(time.Millisecond), ErrNotListening)
}

func TestObserveWithoutObserverFillsQueue(t *testing.T) {
	tree := behaviortree.NewTree("t", behaviortree.NewSuccess(""))
	srv := NewServer(tree, WithQueueCapacity(2))
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	defer srv.Close()

	tree.Tick()
	require.NoError(t, srv.Observe())
	require.NoError(t, srv.Observe())
	assert.ErrorIs(t, srv.Observe(), ErrQueueFull)
	assert.Equal(t, uint64(1), srv.Dropped())
}

func TestWaitForObserverTimesOut(t *testing.T) {
	tree := behaviortree.NewTree("t", behaviortree.NewSuccess(""))
	srv := NewServer(tree)
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	defer srv.Close()

	err := srv.WaitForObserver(20 * time.Millisecond)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrClosed)
}

func TestObserveNeverBlocks(t *testing.T) {
	tree := behaviortree.NewTree("t", behaviortree.NewSuccess(""))
	srv := NewServer(tree, WithQueueCapacity(1))
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	defer srv.Close()

	tree.Tick()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			srv.Observe()
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Observe blocked the tick thread")
	}
	assert.NotZero(t, srv.Dropped())
}

func TestCloseIsIdempotent(t *testing.T) {
	tree := behaviortree.NewTree("t", behaviortree.NewSuccess(""))
	srv := NewServer(tree)
	require.NoError(t, srv.Listen("127.0.0.1:0"))

	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())
	assert.ErrorIs(t, srv.Observe(), ErrClosed)
	assert.ErrorIs(t, srv.Listen("127.0.0.1:0"), ErrClosed)
}

func TestCloseDisconnectsObserver(t *testing.T) {
	tree := behaviortree.NewTree("t", behaviortree.NewSuccess(""))
	srv := NewServer(tree, WithInterval(time.Millisecond))
	require.NoError(t, srv.Listen("127.0.0.1:0"))

	obs, err := Dial(srv.Addr().String(), time.Second)
	require.NoError(t, err)
	defer obs.Close()
	require.NoError(t, srv.WaitForObserver(time.Second))

	require.NoError(t, obs.SetDeadline(time.Now().Add(2*time.Second)))
	first, err := obs.Next()
	require.NoError(t, err)
	require.Equal(t, MessageTypeStructure, first.Type)

	require.NoError(t, srv.Close())
	_, err = obs.Next()
	assert.Error(t, err, "stream ends after server close")
}

func TestListenRequiresRoot(t *testing.T) {
	srv := NewServer(behaviortree.NewTree("empty", nil))
	assert.Error(t, srv.Listen("127.0.0.1:0"))
}
