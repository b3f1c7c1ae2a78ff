package plan

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/signadot/classmod/modify"
)

// Step is one patch operation in a plan.
type Step struct {
	Verb    string   `yaml:"verb"`
	Class   string   `yaml:"class"`
	Method  string   `yaml:"method,omitempty"`
	Methods []string `yaml:"methods,omitempty"`
	Body    string   `yaml:"body,omitempty"`
}

// MethodNames returns the step's method names: Methods when set,
// otherwise the single Method.
func (s *Step) MethodNames() []string {
	if len(s.Methods) > 0 {
		return s.Methods
	}
	return []string{s.Method}
}

// Plan is a declarative patch set.
type Plan struct {
	Caller  string   `yaml:"caller,omitempty"`
	Targets []string `yaml:"targets"`
	Patches []Step   `yaml:"patches"`
}

// Parse decodes and validates a YAML plan.
func Parse(data []byte) (*Plan, error) {
	pl := &Plan{}
	if err := yaml.Unmarshal(data, pl); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}

// Load reads and parses a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read plan %q: %w", path, err)
	}
	pl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan %q: %w", path, err)
	}
	return pl, nil
}

var verbs = map[string]bool{
	modify.VerbMethod:   true,
	modify.VerbOverride: true,
	modify.VerbBefore:   true,
	modify.VerbAfter:    true,
	modify.VerbAround:   true,
	modify.VerbUnpatch:  true,
}

// Validate checks plan shape: known verbs, class and method names
// present, bodies where the verb requires one. Only the before verb
// accepts a methods list.
func (pl *Plan) Validate() error {
	if len(pl.Targets) == 0 {
		return fmt.Errorf("plan has no targets")
	}
	for i := range pl.Patches {
		s := &pl.Patches[i]
		if !verbs[s.Verb] {
			return fmt.Errorf("step %d: unknown verb %q", i, s.Verb)
		}
		if s.Class == "" {
			return fmt.Errorf("step %d: no class specified", i)
		}
		if s.Method == "" && len(s.Methods) == 0 {
			return fmt.Errorf("step %d: no method specified", i)
		}
		if s.Method != "" && len(s.Methods) > 0 {
			return fmt.Errorf("step %d: both method and methods specified", i)
		}
		if len(s.Methods) > 0 && s.Verb != modify.VerbBefore {
			return fmt.Errorf("step %d: verb %q takes a single method", i, s.Verb)
		}
		switch s.Verb {
		case modify.VerbUnpatch:
			if s.Body != "" {
				return fmt.Errorf("step %d: unpatch takes no body", i)
			}
		default:
			if s.Body == "" {
				return fmt.Errorf("step %d: verb %q requires a body", i, s.Verb)
			}
		}
	}
	return nil
}
