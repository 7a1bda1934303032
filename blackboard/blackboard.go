// Package blackboard provides the shared key-value memory behavior tree
// nodes use to exchange data.
//
// Entries are keyed by (type, name): Set stores a value under the pair of
// its static type and a non-empty key string, and Get retrieves it against
// a requested type. Asking for a key under the wrong type reports "not
// found" rather than failing, which keeps optional-value idioms cheap:
//
//	blackboard.Set(bb, "battery", 87)
//	level, ok := blackboard.Get[int](bb, "battery")    // 87, true
//	_, ok = blackboard.Get[string](bb, "battery")      // "", false
//
// The board is guarded by a read-write mutex, so leaves ticking on the
// host loop and diagnostic readers on other goroutines may share it.
// Typed access goes through package-level generic functions because Go
// methods cannot be generic.
package blackboard

import (
	"reflect"
	"sync"
)

// entryKey identifies one stored value: the value's type plus the caller's
// key string. Storing the same key under two types keeps both values.
type entryKey struct {
	typ reflect.Type
	key string
}

// Blackboard is a type-keyed shared store. The zero value is ready to use.
type Blackboard struct {
	mu   sync.RWMutex
	data map[entryKey]any
}

// New returns an empty blackboard. Equivalent to new(Blackboard); provided
// for symmetry with the rest of the module's constructors.
func New() *Blackboard {
	return new(Blackboard)
}

// Set stores value under (T, key), overwriting any previous value of the
// same type and key. An empty key is ignored.
func Set[T any](b *Blackboard, key string, value T) {
	if key == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		b.data = make(map[entryKey]any)
	}
	b.data[entryKey{reflect.TypeOf((*T)(nil)).Elem(), key}] = value
}

// Get retrieves the value stored under (T, key). The second result is
// false when the key was never set under T, in which case the first result
// is T's zero value. A type mismatch is indistinguishable from a missing
// key.
func Get[T any](b *Blackboard, key string) (T, bool) {
	var zero T
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return zero, false
	}
	value, ok := b.data[entryKey{reflect.TypeOf((*T)(nil)).Elem(), key}]
	if !ok {
		return zero, false
	}
	return value.(T), true
}

// GetOr retrieves the value stored under (T, key), or fallback when it is
// not present.
func GetOr[T any](b *Blackboard, key string, fallback T) T {
	if value, ok := Get[T](b, key); ok {
		return value
	}
	return fallback
}

// Has reports whether a value is stored under (T, key).
func Has[T any](b *Blackboard, key string) bool {
	_, ok := Get[T](b, key)
	return ok
}

// Delete removes the value stored under (T, key), if any.
func Delete[T any](b *Blackboard, key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return
	}
	delete(b.data, entryKey{reflect.TypeOf((*T)(nil)).Elem(), key})
}

// Len returns the number of stored entries across all types.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Keys returns the key strings of all stored entries, across all types.
// The same string appears once per type it is stored under. Order is
// unspecified.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil
	}
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k.key)
	}
	return keys
}

// Clear removes all entries.
func (b *Blackboard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
}

// Snapshot returns a shallow copy of the stored values keyed by key string.
// When the same key is stored under several types, which value wins is
// unspecified. Intended for debugging; mutable values are shared with the
// board, not deep-copied.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil
	}
	out := make(map[string]any, len(b.data))
	for k, v := range b.data {
		out[k.key] = v
	}
	return out
}
