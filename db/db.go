// Package db is a memoized, dependency-tracked query runtime. Inputs
// are set explicitly and stamped with a revision; derived queries are
// functions whose nested query calls are recorded automatically as
// dependencies. After an input changes, derived results are not
// recomputed eagerly: the next access walks the recorded dependencies
// backward and recomputes only what actually changed.
package db

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrCancelled is returned by query evaluation when a pending write
// supersedes the revision being computed against. It is a transient
// outcome, not a defect: the caller should re-run the query.
var ErrCancelled = errors.New("db: query cancelled by pending write")

// Revision is a logical timestamp, bumped exactly once per write.
type Revision uint64

// Durability is a hint for how often an input changes. It only orders
// staleness checks (volatile dependencies are checked first); it never
// affects correctness.
type Durability int

const (
	// DurabilityLow marks inputs that change every keystroke, such as
	// the text of an open file.
	DurabilityLow Durability = iota
	// DurabilityMedium marks inputs that change occasionally, such as
	// the set of files in a workspace.
	DurabilityMedium
	// DurabilityHigh marks inputs that effectively never change
	// during a session.
	DurabilityHigh

	numDurabilities
)

// DB holds the revision counter and coordinates the single-writer,
// multiple-reader discipline. Queries and inputs are registered
// against a DB and store their memo tables themselves.
type DB struct {
	mu        sync.RWMutex
	cancel    atomic.Bool
	revision  atomic.Uint64
	changedAt [numDurabilities]Revision // guarded by mu
}

func New() *DB {
	return &DB{}
}

func (db *DB) Revision() Revision {
	return Revision(db.revision.Load())
}

// Writer is the capability to set inputs; it only exists inside Write.
type Writer struct {
	db *DB
}

func (w *Writer) Revision() Revision {
	return w.db.Revision()
}

// Write applies a batch of input changes atomically under a single
// revision bump. It first raises the cancellation flag so in-flight
// readers abort at their next safe point, then waits for them to
// drain before mutating anything.
func (db *DB) Write(fn func(*Writer)) {
	db.cancel.Store(true)
	db.mu.Lock()
	defer db.mu.Unlock()
	db.cancel.Store(false)
	db.revision.Add(1)
	fn(&Writer{db: db})
}

// Read runs fn against a consistent snapshot of the current revision.
// Any number of reads may run concurrently; a pending write makes the
// read fail with ErrCancelled at its next cancellation check.
func (db *DB) Read(fn func(*Ctx) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	ctx := &Ctx{db: db}
	if err := ctx.CheckCancelled(); err != nil {
		return err
	}
	return fn(ctx)
}

// markChanged records that an input of the given durability changed in
// the current revision. Called with mu held for writing.
func (db *DB) markChanged(d Durability) {
	db.changedAt[d] = db.Revision()
}

// changedSince reports whether any input with durability d or higher
// changed after the given revision. When false, every memo of
// durability d verified at that revision is still valid, no per-
// dependency check needed.
func (db *DB) changedSince(d Durability, since Revision) bool {
	for dd := d; dd < numDurabilities; dd++ {
		if db.changedAt[dd] > since {
			return true
		}
	}
	return false
}
