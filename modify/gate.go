package modify

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signadot/classmod/debug"
)

// Gate maintains the set of class names authorized for mutation. The
// set only grows; there is no way to revoke an authorization.
type Gate struct {
	mu      sync.RWMutex
	allowed map[string]bool
}

// NewGate creates an empty permission gate.
func NewGate() *Gate {
	return &Gate{allowed: make(map[string]bool)}
}

// Authorize adds a class name to the permission set. Idempotent.
func (g *Gate) Authorize(name string) {
	if name == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if debug.Gate() && !g.allowed[name] {
		debug.Logf("gate: authorize %q\n", name)
	}
	g.allowed[name] = true
}

// Check returns ErrPermissionDenied when name is empty or not in the
// permission set.
func (g *Gate) Check(name string) error {
	if name == "" {
		return fmt.Errorf("%w: no class specified", ErrPermissionDenied)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.allowed[name] {
		return fmt.Errorf("%w: class %q not authorized", ErrPermissionDenied, name)
	}
	return nil
}

// Authorized returns the permission set, sorted.
func (g *Gate) Authorized() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.allowed))
	for name := range g.allowed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
