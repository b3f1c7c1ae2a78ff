// Package api defines the wire types for the patchd JSON-RPC protocol.
package api

import "time"

// JSON-RPC method names.
const (
	MethodAuthorize = "classmod/authorize"
	MethodPatch     = "classmod/patch"
	MethodUnpatch   = "classmod/unpatch"
	MethodCall      = "classmod/call"
	MethodState     = "classmod/state"
)

// AuthorizeParams asks the server to authorize targets for mutation
// and, when Caller is set, extend its base list with them.
type AuthorizeParams struct {
	Caller  string   `json:"caller,omitempty"`
	Targets []string `json:"targets"`
}

type AuthorizeResult struct {
	Authorized []string `json:"authorized"`
	Error      *Error   `json:"error,omitempty"`
}

// PatchParams applies one modifier verb. Body is expr source; an
// around body sees original(...).
type PatchParams struct {
	Verb    string   `json:"verb"`
	Class   string   `json:"class"`
	Method  string   `json:"method,omitempty"`
	Methods []string `json:"methods,omitempty"`
	Body    string   `json:"body,omitempty"`
}

type PatchResult struct {
	Applied bool   `json:"applied"`
	Error   *Error `json:"error,omitempty"`
}

type UnpatchParams struct {
	Class  string `json:"class"`
	Method string `json:"method"`
}

// UnpatchResult reports a restore. A missing snapshot is soft: Restored
// is false and Warning is set, with no Error.
type UnpatchResult struct {
	Restored bool   `json:"restored"`
	Warning  string `json:"warning,omitempty"`
	Error    *Error `json:"error,omitempty"`
}

// CallParams invokes a method on a fresh instance of a class, for
// inspecting live behavior.
type CallParams struct {
	Class  string `json:"class"`
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

type CallResult struct {
	Value any    `json:"value"`
	Error *Error `json:"error,omitempty"`
}

// StateResult is a snapshot of the server's patch state.
type StateResult struct {
	Classes    []ClassState   `json:"classes"`
	Authorized []string       `json:"authorized"`
	Patched    []string       `json:"patched"`
	Journal    []JournalEntry `json:"journal"`
}

type ClassState struct {
	Name    string   `json:"name"`
	Bases   []string `json:"bases,omitempty"`
	Methods []string `json:"methods,omitempty"`
}

type JournalEntry struct {
	Verb   string    `json:"verb"`
	Method string    `json:"method"`
	At     time.Time `json:"at"`
}
