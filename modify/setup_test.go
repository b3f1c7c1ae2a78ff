package modify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/classmod/class"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetupAuthorizesAndExtends(t *testing.T) {
	loaded := map[string]bool{}
	u := class.NewUniverse(class.LoaderFunc(func(ctx context.Context, name string) (*class.Class, error) {
		loaded[name] = true
		c := class.New(name)
		c.Define("hello_"+name, func(self *class.Object, args ...any) (any, error) {
			return name, nil
		})
		return c, nil
	}))
	caller := class.New("toolkit")
	if err := u.Register(caller); err != nil {
		t.Fatal(err)
	}

	p, err := Setup(context.Background(), u, "toolkit", []string{"alpha", "beta"}, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, p.Gate().Authorized()); diff != "" {
		t.Errorf("Authorized() mismatch (-want +got):\n%s", diff)
	}
	if !loaded["alpha"] || !loaded["beta"] {
		t.Errorf("on-demand loading missed targets: %v", loaded)
	}
	// Hierarchy extension: the caller now resolves target methods.
	for _, m := range []string{"hello_alpha", "hello_beta"} {
		if !caller.Can(m) {
			t.Errorf("caller.Can(%s) = false after Setup", m)
		}
	}
}

func TestSetupReplacesBaseList(t *testing.T) {
	u := class.NewUniverse(nil)
	old := class.New("old")
	old.Define("legacy", func(self *class.Object, args ...any) (any, error) { return nil, nil })
	target := class.New("target")
	caller := class.New("toolkit", old)
	for _, c := range []*class.Class{old, target, caller} {
		if err := u.Register(c); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := Setup(context.Background(), u, "toolkit", []string{"target"}, WithLogger(discardLogger())); err != nil {
		t.Fatal(err)
	}
	if caller.Can("legacy") {
		t.Error("caller still resolves legacy: base list was merged, not replaced")
	}
	bases := caller.Bases()
	if len(bases) != 1 || bases[0] != target {
		t.Errorf("Bases() = %v, want [target]", bases)
	}
}

func TestSetupLoadFailureIsSoft(t *testing.T) {
	u := class.NewUniverse(class.LoaderFunc(func(ctx context.Context, name string) (*class.Class, error) {
		if name == "broken" {
			return nil, fmt.Errorf("load failed")
		}
		return class.New(name), nil
	}))
	p, err := Setup(context.Background(), u, "", []string{"broken", "fine"}, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Setup() error = %v, load failures must be soft", err)
	}
	// The broken target is skipped but stays authorized.
	if diff := cmp.Diff([]string{"broken", "fine"}, p.Gate().Authorized()); diff != "" {
		t.Errorf("Authorized() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := u.Get("fine"); !ok {
		t.Error("fine was not loaded")
	}
	if _, ok := u.Get("broken"); ok {
		t.Error("broken was registered despite load failure")
	}
}

func TestSetupWithoutCaller(t *testing.T) {
	u := class.NewUniverse(nil)
	sample := class.New("sample")
	sample.Define("greet", greetFn)
	if err := u.Register(sample); err != nil {
		t.Fatal(err)
	}
	p, err := Setup(context.Background(), u, "", []string{"sample"}, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	// Patching works with no hierarchy extension.
	if err := p.Override("greet", func(self *class.Object, args ...any) (any, error) {
		return "patched", nil
	}, "sample"); err != nil {
		t.Fatal(err)
	}
	if got := call(t, sample, "greet", "x"); got != "patched" {
		t.Errorf("greet() = %v, want patched", got)
	}
}
