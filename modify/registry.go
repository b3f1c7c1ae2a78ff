package modify

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signadot/classmod/class"
)

// MethodID is the qualified method identifier: the (class, method) pair
// uniquely identifying a patchable slot.
type MethodID struct {
	Class  string
	Method string
}

func (id MethodID) String() string {
	return id.Class + "." + id.Method
}

// Snapshot is an implementation captured before the first patch of a
// method. Defined is false when the slot did not exist at capture time
// (the Method verb on a fresh name).
type Snapshot struct {
	Fn      class.Fn
	Defined bool
}

// Registry maps qualified method identifiers to the implementation each
// had immediately before its first patch.
type Registry struct {
	mu        sync.RWMutex
	originals map[MethodID]Snapshot
}

// NewRegistry creates an empty patch registry.
func NewRegistry() *Registry {
	return &Registry{originals: make(map[MethodID]Snapshot)}
}

// CaptureIfAbsent stores snap as the permanent original for id if no
// entry exists yet. Returns true when the snapshot was stored, false
// when an earlier capture already holds.
func (r *Registry) CaptureIfAbsent(id MethodID, snap Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.originals[id]; exists {
		return false
	}
	r.originals[id] = snap
	return true
}

// Restore returns the stored original for id, leaving the entry in
// place so repeated restores are safe. Returns ErrNoSuchPatch when no
// snapshot was ever captured.
func (r *Registry) Restore(id MethodID) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, exists := r.originals[id]
	if !exists {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNoSuchPatch, id)
	}
	return snap, nil
}

// Has reports whether a snapshot exists for id.
func (r *Registry) Has(id MethodID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.originals[id]
	return exists
}

// Keys returns the registry's qualified method identifiers, sorted.
func (r *Registry) Keys() []MethodID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MethodID, 0, len(r.originals))
	for id := range r.originals {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Method < out[j].Method
	})
	return out
}
