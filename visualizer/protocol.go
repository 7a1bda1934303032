// Package visualizer streams the structure and live per-tick status of a
// behavior tree to a remote observer over a single TCP connection.
//
// The wire format is a small framed binary protocol. Byte 0 of every
// message is the type. A structure message carries the tree's construction
// document (sent once per connection, immediately after accept); a state
// update carries (node id, status) pairs collected on the tick thread.
// Node ids come from one pre-order assignment pass over the live tree and
// are stable for the tree's lifetime.
//
// The Server decouples the host's tick loop from the network: Observe only
// snapshots statuses and enqueues, and a worker goroutine owns the socket
// and drains the queue at a fixed cadence. A send failure never blocks or
// faults the tick path.
package visualizer

import (
	"encoding/binary"
	"fmt"
	"io"

	behaviortree "github.com/Lecrapouille/BehaviorTree-sub000"
)

// Message type bytes.
const (
	// MessageTypeStructure carries the tree's construction document as
	// UTF-8 text: 1 byte type, uint32 big-endian length, then the text.
	MessageTypeStructure byte = 0x01

	// MessageTypeStateUpdate carries per-node statuses: 1 byte type,
	// uint32 big-endian entry count, then count × (uint32 node id, 1 byte
	// status code).
	MessageTypeStateUpdate byte = 0x02
)

// Wire status codes. They coincide with the behaviortree.Status values;
// StatusInvalid has no code because unstarted nodes are not reported.
const (
	statusCodeRunning byte = 0x01
	statusCodeSuccess byte = 0x02
	statusCodeFailure byte = 0x03
)

// maxStructureLength bounds the document text accepted by the decoder.
// Construction documents are small; 16 MB is far beyond any real tree.
const maxStructureLength = 16 * 1024 * 1024

// entrySize is the encoded size of one state update entry.
const entrySize = 5

// maxUpdateEntries bounds the entry count accepted by the decoder; there
// is one entry per tree node at most.
const maxUpdateEntries = 1 << 20

// StatusEntry is one node's status in a state update.
type StatusEntry struct {
	ID     uint32
	Status behaviortree.Status
}

// Message is a decoded protocol message. Exactly one of Structure and
// Updates is meaningful, according to Type.
type Message struct {
	Type      byte
	Structure []byte
	Updates   []StatusEntry
}

// WriteStructure writes a structure message carrying doc to w.
func WriteStructure(w io.Writer, doc []byte) error {
	frame := make([]byte, 5+len(doc))
	frame[0] = MessageTypeStructure
	binary.BigEndian.PutUint32(frame[1:5], uint32(len(doc)))
	copy(frame[5:], doc)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write structure message: %w", err)
	}
	return nil
}

// WriteStateUpdate writes a state update message carrying entries to w.
// Entries with StatusInvalid are skipped; the protocol has no code for an
// unstarted node.
func WriteStateUpdate(w io.Writer, entries []StatusEntry) error {
	frame := make([]byte, 5, 5+len(entries)*entrySize)
	frame[0] = MessageTypeStateUpdate
	var count uint32
	for _, entry := range entries {
		code, ok := statusCode(entry.Status)
		if !ok {
			continue
		}
		var encoded [entrySize]byte
		binary.BigEndian.PutUint32(encoded[0:4], entry.ID)
		encoded[4] = code
		frame = append(frame, encoded[:]...)
		count++
	}
	binary.BigEndian.PutUint32(frame[1:5], count)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write state update message: %w", err)
	}
	return nil
}

// ReadMessage reads and decodes one message from r. It returns an error
// when the stream is malformed, carries an unknown message type, or ends.
func ReadMessage(r io.Reader) (Message, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Message{}, fmt.Errorf("read message header: %w", err)
	}
	switch header[0] {
	case MessageTypeStructure:
		length := binary.BigEndian.Uint32(header[1:5])
		if length > maxStructureLength {
			return Message{}, fmt.Errorf("structure length %d exceeds maximum %d", length, maxStructureLength)
		}
		doc := make([]byte, length)
		if _, err := io.ReadFull(r, doc); err != nil {
			return Message{}, fmt.Errorf("read structure body: %w", err)
		}
		return Message{Type: MessageTypeStructure, Structure: doc}, nil

	case MessageTypeStateUpdate:
		count := binary.BigEndian.Uint32(header[1:5])
		if count > maxUpdateEntries {
			return Message{}, fmt.Errorf("state update entry count %d exceeds maximum %d", count, maxUpdateEntries)
		}
		body := make([]byte, int(count)*entrySize)
		if _, err := io.ReadFull(r, body); err != nil {
			return Message{}, fmt.Errorf("read state update body: %w", err)
		}
		updates := make([]StatusEntry, count)
		for i := range updates {
			encoded := body[i*entrySize:]
			status, err := statusFromCode(encoded[4])
			if err != nil {
				return Message{}, err
			}
			updates[i] = StatusEntry{
				ID:     binary.BigEndian.Uint32(encoded[0:4]),
				Status: status,
			}
		}
		return Message{Type: MessageTypeStateUpdate, Updates: updates}, nil

	default:
		return Message{}, fmt.Errorf("unknown message type 0x%02x", header[0])
	}
}

func statusCode(s behaviortree.Status) (byte, bool) {
	switch s {
	case behaviortree.StatusRunning:
		return statusCodeRunning, true
	case behaviortree.StatusSuccess:
		return statusCodeSuccess, true
	case behaviortree.StatusFailure:
		return statusCodeFailure, true
	default:
		return 0, false
	}
}

func statusFromCode(code byte) (behaviortree.Status, error) {
	switch code {
	case statusCodeRunning:
		return behaviortree.StatusRunning, nil
	case statusCodeSuccess:
		return behaviortree.StatusSuccess, nil
	case statusCodeFailure:
		return behaviortree.StatusFailure, nil
	default:
		return behaviortree.StatusInvalid, fmt.Errorf("unknown status code 0x%02x", code)
	}
}
