package visualizer

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	behaviortree "github.com/Lecrapouille/BehaviorTree-sub000"
	"github.com/Lecrapouille/BehaviorTree-sub000/document"
)

// Sentinel errors returned by the server's observation path. They are
// error codes in the host loop's sense: reportable, never fatal to
// ticking.
var (
	// ErrNotListening is returned by Observe before Listen or after Close.
	ErrNotListening = errors.New("visualizer: not listening")
	// ErrQueueFull is returned by Observe when the update queue is full
	// and the snapshot was dropped. The next Observe enqueues a fresh full
	// snapshot, so a drop only delays the observer's view by one tick.
	ErrQueueFull = errors.New("visualizer: update queue full, snapshot dropped")
	// ErrClosed is returned by methods called after Close.
	ErrClosed = errors.New("visualizer: closed")
)

// defaultInterval is the worker's send cadence, roughly 60 Hz.
const defaultInterval = 16 * time.Millisecond

// defaultQueueCapacity bounds the update queue. Bounded by decision:
// if ticking outpaces the network the oldest view is dropped and counted
// rather than growing memory without limit.
const defaultQueueCapacity = 256

// connectPollInterval is the granularity of WaitForObserver's polling.
const connectPollInterval = 10 * time.Millisecond

// Server streams a behavior tree's structure and live statuses to one
// remote observer at a time. The tick thread calls Observe after each
// tick; a worker goroutine owns the socket and drains the queue at a
// fixed cadence.
type Server struct {
	tree     *behaviortree.Tree
	logger   *slog.Logger
	interval time.Duration
	queueCap int

	ids       map[behaviortree.Node]uint32
	structure []byte

	updates chan []StatusEntry
	stop    chan struct{}
	wg      sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	conn     net.Conn

	listening atomic.Bool
	connected atomic.Bool
	closed    atomic.Bool
	dropped   atomic.Uint64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithInterval sets the worker's send cadence.
func WithInterval(interval time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithQueueCapacity sets the update queue bound.
func WithQueueCapacity(capacity int) Option {
	return func(s *Server) {
		if capacity > 0 {
			s.queueCap = capacity
		}
	}
}

// NewServer creates a server for tree. The tree must outlive the server.
func NewServer(tree *behaviortree.Tree, opts ...Option) *Server {
	s := &Server{
		tree:     tree,
		logger:   slog.Default(),
		interval: defaultInterval,
		queueCap: defaultQueueCapacity,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updates = make(chan []StatusEntry, s.queueCap)
	return s
}

// Listen exports the tree's structure, assigns stable pre-order node ids,
// binds addr (e.g. "127.0.0.1:9898", or ":0" for an ephemeral port), and
// starts the worker. The tree's structure must not change afterwards.
func (s *Server) Listen(addr string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	ids := make(map[behaviortree.Node]uint32)
	structure, err := document.ExportIDs(s.tree, ids)
	if err != nil {
		return fmt.Errorf("visualizer: export structure: %w", err)
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("visualizer: listen: %w", err)
	}
	s.ids = ids
	s.structure = structure
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.listening.Store(true)
	s.logger.Info("visualizer listening",
		"addr", listener.Addr().String(),
		"tree", s.tree.String(),
		"nodes", len(ids))
	s.wg.Add(1)
	go s.serve(listener)
	return nil
}

// Addr returns the bound listen address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Connected reports whether an observer is currently connected.
func (s *Server) Connected() bool { return s.connected.Load() }

// Dropped returns the number of snapshots dropped because the queue was
// full or no observer was draining it.
func (s *Server) Dropped() uint64 { return s.dropped.Load() }

// WaitForObserver blocks until an observer connects or timeout elapses,
// polling in small increments. It returns ErrNotListening before Listen
// and ErrClosed after Close.
func (s *Server) WaitForObserver(timeout time.Duration) error {
	if !s.listening.Load() {
		return ErrNotListening
	}
	deadline := time.Now().Add(timeout)
	for !s.connected.Load() {
		if s.closed.Load() {
			return ErrClosed
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("visualizer: no observer within %v", timeout)
		}
		time.Sleep(connectPollInterval)
	}
	return nil
}

// Observe snapshots the tree's current per-node statuses and enqueues
// them for the worker. It is called from the tick thread after each tick
// and never blocks: when the queue is full the snapshot is dropped,
// counted, and reported as ErrQueueFull. Nodes still at StatusInvalid are
// not included.
func (s *Server) Observe() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if !s.listening.Load() {
		return ErrNotListening
	}
	entries := make([]StatusEntry, 0, len(s.ids))
	behaviortree.Walk(s.tree.Root(), func(n behaviortree.Node) bool {
		if status := n.Status(); status != behaviortree.StatusInvalid {
			entries = append(entries, StatusEntry{ID: s.ids[n], Status: status})
		}
		return true
	})
	if len(entries) == 0 {
		return nil
	}
	select {
	case s.updates <- entries:
		return nil
	default:
		s.dropped.Add(1)
		return ErrQueueFull
	}
}

// Close stops the worker, closes the sockets, and waits for the worker to
// exit. In-flight sends may fail silently. Close is idempotent.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.listening.Store(false)
	close(s.stop)
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}

// serve accepts observers one at a time until the server closes. Each
// accepted connection receives the structure message, then queued state
// updates at the configured cadence.
func (s *Server) serve(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.stop:
			default:
				s.logger.Error("visualizer accept failed", "error", err)
			}
			return
		}
		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.connected.Store(true)
		s.logger.Info("visualizer observer connected", "remote", conn.RemoteAddr().String())

		s.stream(conn)

		s.connected.Store(false)
		conn.Close()
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		select {
		case <-s.stop:
			return
		default:
		}
	}
}

// stream services one observer connection until it fails or the server
// closes. Errors are logged and end the connection; they never reach the
// tick thread.
func (s *Server) stream(conn net.Conn) {
	if err := WriteStructure(conn, s.structure); err != nil {
		s.logger.Error("visualizer structure send failed", "error", err)
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if !s.drain(conn) {
				return
			}
		}
	}
}

// drain sends every queued snapshot to conn. It reports false when a send
// fails and the connection should end.
func (s *Server) drain(conn net.Conn) bool {
	for {
		select {
		case entries := <-s.updates:
			if err := WriteStateUpdate(conn, entries); err != nil {
				s.logger.Warn("visualizer state update dropped", "error", err)
				return false
			}
		default:
			return true
		}
	}
}
