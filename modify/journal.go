package modify

import (
	"sync"
	"time"
)

// Verb names as they appear in the journal.
const (
	VerbMethod   = "method"
	VerbOverride = "override"
	VerbBefore   = "before"
	VerbAfter    = "after"
	VerbAround   = "around"
	VerbUnpatch  = "unpatch"
)

// Record is one journaled mutation.
type Record struct {
	Verb   string
	Method MethodID
	At     time.Time
}

// Journal is the ordered audit trail of successful mutations.
type Journal struct {
	mu   sync.Mutex
	recs []Record

	now func() time.Time
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{now: time.Now}
}

// Append records a successful mutation.
func (j *Journal) Append(verb string, id MethodID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recs = append(j.recs, Record{Verb: verb, Method: id, At: j.now()})
}

// Records returns a copy of the journal, oldest first.
func (j *Journal) Records() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Record, len(j.recs))
	copy(out, j.recs)
	return out
}

// Len returns the number of journaled mutations.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.recs)
}
