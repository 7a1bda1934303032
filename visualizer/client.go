package visualizer

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

// Observer is the client side of the protocol: it dials a Server and
// decodes the stream. A renderer consumes the structure message to draw
// the node graph, then applies each state update to it.
type Observer struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to a visualizer server within timeout.
func Dial(addr string, timeout time.Duration) (*Observer, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("visualizer: dial %s: %w", addr, err)
	}
	return &Observer{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// NewObserver wraps an established connection, for transports other than
// plain TCP dialing.
func NewObserver(conn net.Conn) *Observer {
	return &Observer{conn: conn, reader: bufio.NewReader(conn)}
}

// Next blocks until the next message arrives and returns it decoded. It
// returns an error when the stream ends or is malformed.
func (o *Observer) Next() (Message, error) {
	return ReadMessage(o.reader)
}

// SetDeadline bounds the next read.
func (o *Observer) SetDeadline(t time.Time) error {
	return o.conn.SetReadDeadline(t)
}

// Close closes the connection.
func (o *Observer) Close() error {
	return o.conn.Close()
}
