package plan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/classmod/class"
)

const sampleManifest = `
classes:
  - name: base
    methods:
      kind: '"base"'
  - name: sample
    bases: [base]
    methods:
      greet: '"Hello, " + string(args[0])'
`

func TestParseClasses(t *testing.T) {
	m, err := ParseClasses([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"base", "sample"}, m.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if body, ok := m.MethodBody("sample", "greet"); !ok || !strings.Contains(body, "Hello") {
		t.Errorf("MethodBody(sample, greet) = (%q, %v)", body, ok)
	}
	if _, ok := m.MethodBody("sample", "ghost"); ok {
		t.Error("MethodBody(sample, ghost) = true")
	}
}

func TestParseClassesErrors(t *testing.T) {
	if _, err := ParseClasses([]byte("classes: [{name: a}, {name: a}]")); err == nil {
		t.Error("ParseClasses(dup) error = nil, want error")
	}
	if _, err := ParseClasses([]byte("classes: [{bases: [x]}]")); err == nil {
		t.Error("ParseClasses(unnamed) error = nil, want error")
	}
}

func TestManifestUniverseLazyLoad(t *testing.T) {
	m, err := ParseClasses([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}
	u := m.Universe()
	if _, ok := u.Get("sample"); ok {
		t.Fatal("Get(sample) = true before Ensure, manifest must load lazily")
	}
	c, err := u.Ensure(context.Background(), "sample")
	if err != nil {
		t.Fatal(err)
	}
	// Base classes load along with their dependents.
	if _, ok := u.Get("base"); !ok {
		t.Error("Get(base) = false after loading sample")
	}
	obj := c.NewObject()
	if got, err := obj.Call("greet", "World"); err != nil || got != "Hello, World" {
		t.Errorf("greet(World) = (%v, %v), want Hello, World", got, err)
	}
	if got, err := obj.Call("kind"); err != nil || got != "base" {
		t.Errorf("kind() = (%v, %v), want base (inherited)", got, err)
	}

	if _, err := u.Ensure(context.Background(), "ghost"); !errors.Is(err, class.ErrNoClass) {
		t.Errorf("Ensure(ghost) error = %v, want ErrNoClass", err)
	}
}

func TestManifestUniverseBaseCycle(t *testing.T) {
	m, err := ParseClasses([]byte(`
classes:
  - name: a
    bases: [b]
  - name: b
    bases: [a]
`))
	if err != nil {
		t.Fatal(err)
	}
	u := m.Universe()
	if _, err := u.Ensure(context.Background(), "a"); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Ensure(a) error = %v, want base cycle error", err)
	}
}

func TestManifestUniverseBadBody(t *testing.T) {
	m, err := ParseClasses([]byte("classes: [{name: broken, methods: {m: '1 +'}}]"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Universe().Ensure(context.Background(), "broken"); err == nil {
		t.Error("Ensure(broken) error = nil, want compile error")
	}
}
