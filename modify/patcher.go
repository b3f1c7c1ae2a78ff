package modify

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/debug"
)

// AroundFn is a wrapper installed by Around. It receives the
// implementation that was live when the patch was applied and has full
// control: it may call orig zero, one, or many times, transform the
// arguments, or short-circuit.
type AroundFn func(orig class.Fn, self *class.Object, args ...any) (any, error)

// Patcher is the modifier-engine handle. All verbs run under a single
// mutex, so each check/capture/install sequence is atomic with respect
// to the others.
type Patcher struct {
	mu       sync.Mutex
	universe *class.Universe
	gate     *Gate
	registry *Registry
	journal  *Journal
	log      *slog.Logger
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the logger used for soft-failure warnings.
func WithLogger(log *slog.Logger) Option {
	return func(p *Patcher) { p.log = log }
}

// WithGate shares an existing permission gate.
func WithGate(g *Gate) Option {
	return func(p *Patcher) { p.gate = g }
}

// WithRegistry shares an existing patch registry.
func WithRegistry(r *Registry) Option {
	return func(p *Patcher) { p.registry = r }
}

// WithJournal shares an existing audit journal.
func WithJournal(j *Journal) Option {
	return func(p *Patcher) { p.journal = j }
}

// New creates a Patcher over the given universe with a fresh gate,
// registry, and journal unless options supply shared ones.
func New(u *class.Universe, opts ...Option) *Patcher {
	p := &Patcher{universe: u}
	for _, opt := range opts {
		opt(p)
	}
	if p.gate == nil {
		p.gate = NewGate()
	}
	if p.registry == nil {
		p.registry = NewRegistry()
	}
	if p.journal == nil {
		p.journal = NewJournal()
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// Gate returns the patcher's permission gate.
func (p *Patcher) Gate() *Gate { return p.gate }

// Registry returns the patcher's snapshot registry.
func (p *Patcher) Registry() *Registry { return p.registry }

// Journal returns the patcher's audit journal.
func (p *Patcher) Journal() *Journal { return p.journal }

// Universe returns the class universe the patcher mutates.
func (p *Patcher) Universe() *class.Universe { return p.universe }

// target runs the shared verb preamble: permission check, then class
// lookup. Callers hold p.mu.
func (p *Patcher) target(className string) (*class.Class, error) {
	if err := p.gate.Check(className); err != nil {
		return nil, err
	}
	c, ok := p.universe.Get(className)
	if !ok {
		return nil, fmt.Errorf("%w: class %q not loaded", ErrMethodNotFound, className)
	}
	return c, nil
}

// Method creates a new slot. It fails with ErrMethodAlreadyExists when
// name already resolves on the class, directly or through inheritance.
//
// The registry records an undefined snapshot for the slot, so a later
// Unpatch removes the slot entirely, returning the class to its
// pre-Method shape.
func (p *Patcher) Method(name string, fn class.Fn, className string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.target(className)
	if err != nil {
		return err
	}
	if _, ok := c.Resolve(name); ok {
		return fmt.Errorf("%w: %s.%s", ErrMethodAlreadyExists, className, name)
	}
	id := MethodID{Class: className, Method: name}
	p.registry.CaptureIfAbsent(id, Snapshot{})
	c.Define(name, fn)
	p.journal.Append(VerbMethod, id)
	if debug.Patch() {
		debug.Logf("patch: method %s\n", id)
	}
	return nil
}

// Override replaces an existing slot. It fails with ErrMethodNotFound
// when name does not resolve. The prior live implementation is
// discarded; only the registry's snapshot survives, reachable via
// Unpatch.
func (p *Patcher) Override(name string, fn class.Fn, className string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.target(className)
	if err != nil {
		return err
	}
	prior, ok := c.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrMethodNotFound, className, name)
	}
	id := MethodID{Class: className, Method: name}
	p.registry.CaptureIfAbsent(id, Snapshot{Fn: prior, Defined: true})
	c.Define(name, fn)
	p.journal.Append(VerbOverride, id)
	if debug.Patch() {
		debug.Logf("patch: override %s\n", id)
	}
	return nil
}

// Before wraps a slot so fn runs strictly before the prior
// implementation on every call. fn's return value is discarded; an
// error from fn aborts the call. The composed call returns the prior
// implementation's result.
func (p *Patcher) Before(name string, fn class.Fn, className string) error {
	return p.BeforeAll([]string{name}, fn, className)
}

// BeforeAll applies Before to each name. All names are validated before
// any slot is touched, so a missing method leaves every slot unchanged.
func (p *Patcher) BeforeAll(names []string, fn class.Fn, className string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.target(className)
	if err != nil {
		return err
	}
	priors := make([]class.Fn, len(names))
	for i, name := range names {
		prior, ok := c.Resolve(name)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrMethodNotFound, className, name)
		}
		priors[i] = prior
	}
	for i, name := range names {
		prior := priors[i]
		id := MethodID{Class: className, Method: name}
		p.registry.CaptureIfAbsent(id, Snapshot{Fn: prior, Defined: true})
		c.Define(name, func(self *class.Object, args ...any) (any, error) {
			if _, err := fn(self, args...); err != nil {
				return nil, err
			}
			return prior(self, args...)
		})
		p.journal.Append(VerbBefore, id)
		if debug.Patch() {
			debug.Logf("patch: before %s\n", id)
		}
	}
	return nil
}

// After wraps a slot so fn runs strictly after the prior implementation
// on every call. The composed call returns fn's result when fn returns
// a non-nil value, otherwise the prior implementation's result. Errors
// from either abort the call.
func (p *Patcher) After(name string, fn class.Fn, className string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.target(className)
	if err != nil {
		return err
	}
	prior, ok := c.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrMethodNotFound, className, name)
	}
	id := MethodID{Class: className, Method: name}
	p.registry.CaptureIfAbsent(id, Snapshot{Fn: prior, Defined: true})
	c.Define(name, func(self *class.Object, args ...any) (any, error) {
		res, err := prior(self, args...)
		if err != nil {
			return nil, err
		}
		out, err := fn(self, args...)
		if err != nil {
			return nil, err
		}
		if out != nil {
			return out, nil
		}
		return res, nil
	})
	p.journal.Append(VerbAfter, id)
	if debug.Patch() {
		debug.Logf("patch: after %s\n", id)
	}
	return nil
}

// Around hands full control of a slot to fn, passing the prior
// implementation as an explicit argument. The permission gate applies
// here exactly as for the other verbs.
func (p *Patcher) Around(name string, fn AroundFn, className string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.target(className)
	if err != nil {
		return err
	}
	prior, ok := c.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrMethodNotFound, className, name)
	}
	id := MethodID{Class: className, Method: name}
	p.registry.CaptureIfAbsent(id, Snapshot{Fn: prior, Defined: true})
	c.Define(name, func(self *class.Object, args ...any) (any, error) {
		return fn(prior, self, args...)
	})
	p.journal.Append(VerbAround, id)
	if debug.Patch() {
		debug.Logf("patch: around %s\n", id)
	}
	return nil
}

// Unpatch reinstalls the snapshot captured by the first patch of
// (className, name). A missing snapshot is a soft failure: it is logged
// as a warning and reported as (false, ErrNoSuchPatch). The registry
// entry survives a successful Unpatch, so calling it again is safe and
// restores the same original.
func (p *Patcher) Unpatch(name, className string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.target(className)
	if err != nil {
		return false, err
	}
	id := MethodID{Class: className, Method: name}
	snap, err := p.registry.Restore(id)
	if err != nil {
		p.log.Warn("unpatch: no snapshot", "method", id.String())
		return false, err
	}
	if snap.Defined {
		c.Define(name, snap.Fn)
	} else {
		c.Remove(name)
	}
	p.journal.Append(VerbUnpatch, id)
	if debug.Patch() {
		debug.Logf("patch: unpatch %s\n", id)
	}
	return true, nil
}
