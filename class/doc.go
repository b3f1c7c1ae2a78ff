// Package class provides the dynamic class runtime that the modifier
// engine operates on.
//
// A Class owns a mutable dispatch table mapping method names to function
// values, with resolution falling back to an ordered list of base classes.
// Classes live in a Universe, which can load unknown classes on demand
// through a pluggable Loader.
//
// # Related Packages
//
//   - github.com/signadot/classmod/modify - Patch registry and modifier engine
//   - github.com/signadot/classmod/plan - Declarative patch plans
package class
