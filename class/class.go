package class

import (
	"fmt"
	"sort"
	"sync"
)

// Fn is a method implementation. It receives the instance it was invoked
// on and the call arguments.
type Fn func(self *Object, args ...any) (any, error)

// Class is a dynamic class: a name, an ordered list of base classes, and
// a mutable dispatch table from method name to implementation.
type Class struct {
	name string

	mu      sync.RWMutex
	methods map[string]Fn
	bases   []*Class
}

// New creates a class with the given name and base classes.
func New(name string, bases ...*Class) *Class {
	return &Class{
		name:    name,
		methods: make(map[string]Fn),
		bases:   bases,
	}
}

func (c *Class) Name() string { return c.name }

// Define installs fn as the class's own slot for name, replacing any
// previous own slot.
func (c *Class) Define(name string, fn Fn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods[name] = fn
}

// Remove deletes the class's own slot for name. Inherited slots are
// unaffected.
func (c *Class) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.methods, name)
}

// Lookup returns the class's own slot for name, without consulting base
// classes.
func (c *Class) Lookup(name string) (Fn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.methods[name]
	return fn, ok
}

// Resolve returns the implementation invoked for name: the class's own
// slot if present, otherwise the first match walking base classes
// depth-first, left to right.
func (c *Class) Resolve(name string) (Fn, bool) {
	return c.resolve(name, map[*Class]bool{})
}

func (c *Class) resolve(name string, seen map[*Class]bool) (Fn, bool) {
	if seen[c] {
		return nil, false
	}
	seen[c] = true
	c.mu.RLock()
	fn, ok := c.methods[name]
	bases := c.bases
	c.mu.RUnlock()
	if ok {
		return fn, true
	}
	for _, b := range bases {
		if fn, ok := b.resolve(name, seen); ok {
			return fn, true
		}
	}
	return nil, false
}

// Can reports whether name resolves on the class, directly or through
// inheritance.
func (c *Class) Can(name string) bool {
	_, ok := c.Resolve(name)
	return ok
}

// SetBases replaces the class's base list. The previous list is
// discarded, not merged.
func (c *Class) SetBases(bases ...*Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bases = bases
}

// Bases returns a copy of the class's base list, in order.
func (c *Class) Bases() []*Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Class, len(c.bases))
	copy(out, c.bases)
	return out
}

// Methods returns the class's own method names, sorted.
func (c *Class) Methods() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.methods))
	for name := range c.methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Call resolves name and invokes it with self and args.
func (c *Class) Call(self *Object, name string, args ...any) (any, error) {
	fn, ok := c.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoMethod, c.name, name)
	}
	return fn(self, args...)
}

// NewObject creates an instance of the class.
func (c *Class) NewObject() *Object {
	return &Object{class: c, Attrs: make(map[string]any)}
}

// Object is an instance of a Class: a class pointer plus per-instance
// attributes.
type Object struct {
	class *Class

	Attrs map[string]any
}

func (o *Object) Class() *Class { return o.class }

// Can reports whether the object's class resolves name.
func (o *Object) Can(name string) bool { return o.class.Can(name) }

// Call dispatches name through the object's class.
func (o *Object) Call(name string, args ...any) (any, error) {
	return o.class.Call(o, name, args...)
}
