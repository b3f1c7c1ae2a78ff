package class

import "errors"

var (
	// ErrNoMethod is returned by Call when a name does not resolve.
	ErrNoMethod = errors.New("no such method")
	// ErrNoClass is returned by Universe.Ensure when a class is unknown
	// and cannot be loaded.
	ErrNoClass = errors.New("no such class")
	// ErrClassExists is returned by Universe.Register on a duplicate name.
	ErrClassExists = errors.New("class already registered")
)
