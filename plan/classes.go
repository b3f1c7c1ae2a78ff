package plan

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/signadot/classmod/class"
)

// ClassDef declares one class in a classes manifest: its bases and its
// methods as expr bodies.
type ClassDef struct {
	Name    string            `yaml:"name"`
	Bases   []string          `yaml:"bases,omitempty"`
	Methods map[string]string `yaml:"methods,omitempty"`
}

// ClassesManifest declares a class universe in YAML. It doubles as the
// universe's Loader, so classes materialize on first reference.
type ClassesManifest struct {
	Classes []ClassDef `yaml:"classes"`
}

// ParseClasses decodes and validates a YAML classes manifest.
func ParseClasses(data []byte) (*ClassesManifest, error) {
	m := &ClassesManifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding classes manifest: %w", err)
	}
	seen := map[string]bool{}
	for i, def := range m.Classes {
		if def.Name == "" {
			return nil, fmt.Errorf("class %d: no name", i)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("class %q declared twice", def.Name)
		}
		seen[def.Name] = true
	}
	return m, nil
}

// LoadClasses reads and parses a classes manifest file.
func LoadClasses(path string) (*ClassesManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read classes manifest %q: %w", path, err)
	}
	m, err := ParseClasses(data)
	if err != nil {
		return nil, fmt.Errorf("classes manifest %q: %w", path, err)
	}
	return m, nil
}

// Names returns the declared class names, in manifest order.
func (m *ClassesManifest) Names() []string {
	out := make([]string, len(m.Classes))
	for i, def := range m.Classes {
		out[i] = def.Name
	}
	return out
}

// Universe builds a class universe whose Loader materializes manifest
// classes on demand, compiling method bodies and loading base classes
// recursively.
func (m *ClassesManifest) Universe() *class.Universe {
	defs := make(map[string]ClassDef, len(m.Classes))
	for _, def := range m.Classes {
		defs[def.Name] = def
	}
	loading := map[string]bool{}
	var u *class.Universe
	u = class.NewUniverse(class.LoaderFunc(func(ctx context.Context, name string) (*class.Class, error) {
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q not in manifest", class.ErrNoClass, name)
		}
		if loading[name] {
			return nil, fmt.Errorf("base cycle through class %q", name)
		}
		loading[name] = true
		defer delete(loading, name)

		bases := make([]*class.Class, 0, len(def.Bases))
		for _, b := range def.Bases {
			bc, err := u.Ensure(ctx, b)
			if err != nil {
				return nil, err
			}
			bases = append(bases, bc)
		}
		c := class.New(name, bases...)
		for mName, body := range def.Methods {
			fn, err := CompileFn(body)
			if err != nil {
				return nil, fmt.Errorf("class %q method %q: %w", name, mName, err)
			}
			c.Define(mName, fn)
		}
		return c, nil
	}))
	return u
}

// MethodBody returns the manifest's expr source for a class method, if
// declared.
func (m *ClassesManifest) MethodBody(className, method string) (string, bool) {
	for _, def := range m.Classes {
		if def.Name == className {
			body, ok := def.Methods[method]
			return body, ok
		}
	}
	return "", false
}
