package modify

import "errors"

var (
	// ErrPermissionDenied is returned when a verb targets a class that is
	// unspecified or not in the permission set.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrMethodNotFound is returned when a verb requires a resolvable
	// method and finds none, directly or through inheritance.
	ErrMethodNotFound = errors.New("method not found")
	// ErrMethodAlreadyExists is returned by Method when the name already
	// resolves on the target class.
	ErrMethodAlreadyExists = errors.New("method already exists")
	// ErrNoSuchPatch is returned by Unpatch when no snapshot was ever
	// captured for the method. It is a soft failure.
	ErrNoSuchPatch = errors.New("no such patch")
)
