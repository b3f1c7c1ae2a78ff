package modify

import (
	"context"

	"github.com/signadot/classmod/class"
)

// Setup is the authorize-and-extend entry point: it creates a Patcher
// over u and runs Extend on it.
func Setup(ctx context.Context, u *class.Universe, caller string, targets []string, opts ...Option) (*Patcher, error) {
	p := New(u, opts...)
	if err := p.Extend(ctx, caller, targets); err != nil {
		return nil, err
	}
	return p, nil
}

// Extend authorizes each target class for mutation, loads unknown ones
// through the universe's Loader, and replaces caller's base-class list
// with the loaded targets so the caller inherits their methods.
//
// Load failures are soft: the failing target is skipped with a warning
// and remains authorized, in case it becomes loadable later. When
// caller is empty or unloadable, hierarchy extension is skipped;
// patching still works. Only context cancellation is a hard error.
func (p *Patcher) Extend(ctx context.Context, caller string, targets []string) error {
	bases := make([]*class.Class, 0, len(targets))
	for _, name := range targets {
		p.gate.Authorize(name)
		c, err := p.universe.Ensure(ctx, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.log.Warn("setup: could not load class", "class", name, "error", err)
			continue
		}
		bases = append(bases, c)
	}
	if caller != "" {
		cc, err := p.universe.Ensure(ctx, caller)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.log.Warn("setup: caller class not loaded, skipping hierarchy extension", "class", caller, "error", err)
			return nil
		}
		cc.SetBases(bases...)
	}
	return nil
}
