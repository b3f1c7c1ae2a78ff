package class

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Loader loads a class by name on demand. Load is the only boundary in
// the runtime that may block; implementations should honor ctx.
type Loader interface {
	Load(ctx context.Context, name string) (*Class, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, name string) (*Class, error)

func (f LoaderFunc) Load(ctx context.Context, name string) (*Class, error) {
	return f(ctx, name)
}

// Universe manages all known classes.
type Universe struct {
	mu      sync.RWMutex
	classes map[string]*Class

	loader Loader
}

// NewUniverse creates a universe. loader may be nil, in which case
// Ensure only finds already-registered classes.
func NewUniverse(loader Loader) *Universe {
	return &Universe{
		classes: make(map[string]*Class),
		loader:  loader,
	}
}

// Register adds a class to the universe.
func (u *Universe) Register(c *Class) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if c.Name() == "" {
		return fmt.Errorf("class must have a name")
	}
	if _, exists := u.classes[c.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrClassExists, c.Name())
	}
	u.classes[c.Name()] = c
	return nil
}

// Get returns a registered class by name.
func (u *Universe) Get(name string) (*Class, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	c, ok := u.classes[name]
	return c, ok
}

// Ensure returns the class for name, loading and registering it through
// the universe's Loader when unknown.
func (u *Universe) Ensure(ctx context.Context, name string) (*Class, error) {
	if c, ok := u.Get(name); ok {
		return c, nil
	}
	if u.loader == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoClass, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := u.loader.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading class %q: %w", name, err)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	// Another goroutine may have loaded it while we were.
	if prior, ok := u.classes[name]; ok {
		return prior, nil
	}
	u.classes[name] = c
	return c, nil
}

// Names returns all registered class names, sorted.
func (u *Universe) Names() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]string, 0, len(u.classes))
	for name := range u.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
