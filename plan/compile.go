package plan

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/modify"
)

// CompileFn compiles an expr body into a method implementation. The
// expression sees self (the receiving object) and args (the call
// arguments).
func CompileFn(body string) (class.Fn, error) {
	prg, err := compile(body)
	if err != nil {
		return nil, err
	}
	return func(self *class.Object, args ...any) (any, error) {
		return expr.Run(prg, callEnv(self, args))
	}, nil
}

// CompileAround compiles an expr body into an around wrapper. Besides
// self and args, the expression sees original(...): calling it with no
// arguments forwards the wrapped call's arguments, calling it with
// arguments overrides them.
func CompileAround(body string) (modify.AroundFn, error) {
	prg, err := compile(body)
	if err != nil {
		return nil, err
	}
	return func(orig class.Fn, self *class.Object, args ...any) (any, error) {
		env := callEnv(self, args)
		env["original"] = func(callArgs ...any) (any, error) {
			if len(callArgs) == 0 {
				callArgs = args
			}
			return orig(self, callArgs...)
		}
		return expr.Run(prg, env)
	}, nil
}

func compile(body string) (*vm.Program, error) {
	if body == "" {
		return nil, fmt.Errorf("empty body")
	}
	prg, err := expr.Compile(body, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling body %q: %w", body, err)
	}
	return prg, nil
}

func callEnv(self *class.Object, args []any) map[string]any {
	return map[string]any{
		"self": self,
		"args": args,
	}
}
