package db

import (
	"fmt"
	"strings"
)

// Ctx is the evaluation context threaded through every query. It
// carries the cancellation check and the frame stack used for
// automatic dependency recording and cycle detection. A Ctx belongs
// to a single Read call and must not be shared across goroutines.
type Ctx struct {
	db     *DB
	frames []frame
}

// frame is one active computation. Nested query calls append to deps.
type frame struct {
	query string
	key   any
	deps  []dependency
}

// dependency is a recorded edge to a query or input slot, with the
// durability of that slot so staleness checks can be ordered.
type dependency struct {
	slot       depSlot
	durability Durability
}

// depSlot is what a dependency can do: report whether its value
// changed after a revision, recomputing itself if necessary.
type depSlot interface {
	maybeChangedAfter(ctx *Ctx, since Revision) (bool, error)
	describe() string
}

func (c *Ctx) DB() *DB {
	return c.db
}

// CheckCancelled returns ErrCancelled when a write is waiting to
// apply. Long computations poll it at safe points; the query runtime
// polls it on every query entry.
func (c *Ctx) CheckCancelled() error {
	if c.db.cancel.Load() {
		return ErrCancelled
	}
	return nil
}

// record notes that the currently computing query consumed the given
// slot. Outside any computation (a top-level query call) it is a no-op.
func (c *Ctx) record(slot depSlot, d Durability) {
	if n := len(c.frames); n > 0 {
		c.frames[n-1].deps = append(c.frames[n-1].deps, dependency{slot: slot, durability: d})
	}
}

// push enters a computation frame, failing loudly on re-entrancy: a
// query that depends on itself is a programming defect, not a
// recoverable condition.
func (c *Ctx) push(query string, key any) {
	for _, f := range c.frames {
		if f.query == query && f.key == key {
			panic("db: dependency cycle detected: " + c.cyclePath(query, key))
		}
	}
	c.frames = append(c.frames, frame{query: query, key: key})
}

func (c *Ctx) pop() frame {
	n := len(c.frames)
	f := c.frames[n-1]
	c.frames = c.frames[:n-1]
	return f
}

func (c *Ctx) cyclePath(query string, key any) string {
	var sb strings.Builder
	for _, f := range c.frames {
		fmt.Fprintf(&sb, "%s(%v) -> ", f.query, f.key)
	}
	fmt.Fprintf(&sb, "%s(%v)", query, key)
	return sb.String()
}
