package class

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func constFn(v any) Fn {
	return func(self *Object, args ...any) (any, error) {
		return v, nil
	}
}

func TestDefineLookupRemove(t *testing.T) {
	c := New("sample")
	if _, ok := c.Lookup("greet"); ok {
		t.Fatal("Lookup() found slot on empty class")
	}
	c.Define("greet", constFn("hi"))
	if _, ok := c.Lookup("greet"); !ok {
		t.Fatal("Lookup() missed defined slot")
	}
	c.Remove("greet")
	if _, ok := c.Lookup("greet"); ok {
		t.Fatal("Lookup() found removed slot")
	}
}

func TestResolveInheritance(t *testing.T) {
	grandparent := New("grandparent")
	grandparent.Define("deep", constFn("grandparent"))
	left := New("left", grandparent)
	left.Define("side", constFn("left"))
	right := New("right")
	right.Define("side", constFn("right"))
	right.Define("only", constFn("right"))
	c := New("child", left, right)
	c.Define("own", constFn("child"))

	tests := []struct {
		name   string
		method string
		want   string
		wantOK bool
	}{
		{name: "own slot", method: "own", want: "child", wantOK: true},
		{name: "depth first before breadth", method: "deep", want: "grandparent", wantOK: true},
		{name: "left base wins", method: "side", want: "left", wantOK: true},
		{name: "right base reachable", method: "only", want: "right", wantOK: true},
		{name: "unresolved", method: "missing", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := c.Resolve(tt.method)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.method, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			got, err := fn(nil)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q)() = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestResolveCycle(t *testing.T) {
	a := New("a")
	b := New("b", a)
	a.SetBases(b)
	if _, ok := a.Resolve("anything"); ok {
		t.Fatal("Resolve() on cyclic bases found phantom slot")
	}
	b.Define("m", constFn("b"))
	if fn, ok := a.Resolve("m"); !ok {
		t.Fatal("Resolve() missed slot through cyclic bases")
	} else if v, _ := fn(nil); v != "b" {
		t.Errorf("Resolve() = %v, want b", v)
	}
}

func TestSetBasesReplaces(t *testing.T) {
	old := New("old")
	old.Define("m", constFn("old"))
	c := New("child", old)
	if !c.Can("m") {
		t.Fatal("Can() = false before SetBases")
	}
	neu := New("new")
	c.SetBases(neu)
	if c.Can("m") {
		t.Fatal("Can() still true after base list replaced")
	}
	if diff := cmp.Diff([]*Class{neu}, c.Bases(), cmp.Comparer(func(a, b *Class) bool { return a == b })); diff != "" {
		t.Errorf("Bases() mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodsSorted(t *testing.T) {
	c := New("sample")
	c.Define("b", constFn(nil))
	c.Define("a", constFn(nil))
	c.Define("c", constFn(nil))
	if diff := cmp.Diff([]string{"a", "b", "c"}, c.Methods()); diff != "" {
		t.Errorf("Methods() mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectCall(t *testing.T) {
	c := New("sample")
	c.Define("greet", func(self *Object, args ...any) (any, error) {
		return "Hello, " + args[0].(string), nil
	})
	obj := c.NewObject()
	got, err := obj.Call("greet", "World")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello, World" {
		t.Errorf("Call(greet) = %v, want Hello, World", got)
	}
	if _, err := obj.Call("missing"); !errors.Is(err, ErrNoMethod) {
		t.Errorf("Call(missing) error = %v, want ErrNoMethod", err)
	}
	if obj.Class() != c {
		t.Error("Class() did not return the constructing class")
	}
}

func TestObjectAttrs(t *testing.T) {
	c := New("counter")
	c.Define("incr", func(self *Object, args ...any) (any, error) {
		n, _ := self.Attrs["n"].(int)
		self.Attrs["n"] = n + 1
		return n + 1, nil
	})
	obj := c.NewObject()
	for want := 1; want <= 3; want++ {
		got, err := obj.Call("incr")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Call(incr) = %v, want %d", got, want)
		}
	}
}
