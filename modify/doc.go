// Package modify implements the patch registry and modifier engine.
//
// A Patcher is a handle bound to one class universe, one permission
// Gate, one snapshot Registry, and one audit Journal. It exposes the
// five modifier verbs — Method, Override, Before, After, Around — plus
// Unpatch.
//
// # Snapshots
//
// The first successful patch of a (class, method) pair captures the
// implementation as it stood at that moment. Later patches of the same
// pair compose against the live slot but never touch the snapshot, so
// Unpatch always restores the pristine, never-patched behavior.
//
// # Permissions
//
// Every verb, Unpatch included, first checks the Gate. A class must be
// authorized (normally via Setup) before any of its slots can be
// rewritten.
package modify
