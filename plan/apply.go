package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/debug"
	"github.com/signadot/classmod/modify"
)

// StepResult reports the outcome of one plan step. Warning is set for
// soft failures (an unpatch step with no snapshot); hard failures abort
// Apply and are returned as its error instead.
type StepResult struct {
	Step    int
	Verb    string
	Class   string
	Methods []string
	Warning string
}

// Apply sets up a Patcher for the plan's caller and targets, then
// applies each step in order. The first hard verb error aborts,
// returning the results of the steps that did apply alongside the
// error.
func Apply(ctx context.Context, u *class.Universe, pl *Plan, opts ...modify.Option) (*modify.Patcher, []StepResult, error) {
	p, err := modify.Setup(ctx, u, pl.Caller, pl.Targets, opts...)
	if err != nil {
		return nil, nil, err
	}
	results := make([]StepResult, 0, len(pl.Patches))
	for i := range pl.Patches {
		s := &pl.Patches[i]
		res := StepResult{Step: i, Verb: s.Verb, Class: s.Class, Methods: s.MethodNames()}
		if debug.Plan() {
			debug.Logf("plan: step %d %s %s %v\n", i, s.Verb, s.Class, res.Methods)
		}
		if err := applyStep(p, s, &res); err != nil {
			return p, results, fmt.Errorf("step %d (%s %s.%s): %w", i, s.Verb, s.Class, res.Methods[0], err)
		}
		results = append(results, res)
	}
	return p, results, nil
}

func applyStep(p *modify.Patcher, s *Step, res *StepResult) error {
	switch s.Verb {
	case modify.VerbUnpatch:
		ok, err := p.Unpatch(s.Method, s.Class)
		if err != nil && !errors.Is(err, modify.ErrNoSuchPatch) {
			return err
		}
		if !ok {
			res.Warning = err.Error()
		}
		return nil
	case modify.VerbAround:
		fn, err := CompileAround(s.Body)
		if err != nil {
			return err
		}
		return p.Around(s.Method, fn, s.Class)
	}
	fn, err := CompileFn(s.Body)
	if err != nil {
		return err
	}
	switch s.Verb {
	case modify.VerbMethod:
		return p.Method(s.Method, fn, s.Class)
	case modify.VerbOverride:
		return p.Override(s.Method, fn, s.Class)
	case modify.VerbBefore:
		return p.BeforeAll(s.MethodNames(), fn, s.Class)
	case modify.VerbAfter:
		return p.After(s.Method, fn, s.Class)
	}
	return fmt.Errorf("unknown verb %q", s.Verb)
}
