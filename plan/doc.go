// Package plan loads and applies declarative patch plans.
//
// A plan is a YAML document naming a caller, the target classes to
// authorize, and an ordered list of patch steps. Step bodies are
// expr-lang expressions compiled into method implementations; an
// around body additionally sees an original(...) function bound to the
// implementation it wraps.
//
// Plans are inputs, not saved state: applying a plan mutates the
// in-process class universe and nothing else.
package plan
