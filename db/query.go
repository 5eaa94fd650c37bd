package db

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Query is a named, memoized derived computation from K to V. The
// compute function runs inside a recording context: every nested
// query or input access becomes a dependency of the memo, checked on
// later reads to decide whether the cached value is still current.
type Query[K comparable, V any] struct {
	db      *DB
	name    string
	compute func(*Ctx, K) (V, error)
	equal   func(a, b V) bool

	mu    sync.Mutex
	memos map[K]*memo[V]
	execs atomic.Uint64
}

type memo[V any] struct {
	value V
	// changedAt is the revision at which the value last actually
	// changed; verifiedAt is the revision at which it was last known
	// to be current. Backdating changedAt when a recomputation yields
	// an equal value is what stops invalidation cascades.
	//
	// All fields except verifiedAt are immutable once the memo is
	// installed; verifiedAt is re-stamped by concurrent readers and is
	// only touched under the owning query's mu.
	changedAt  Revision
	verifiedAt Revision
	durability Durability
	deps       []dependency
}

func NewQuery[K comparable, V any](db *DB, name string, compute func(*Ctx, K) (V, error)) *Query[K, V] {
	return &Query[K, V]{
		db:      db,
		name:    name,
		compute: compute,
		memos:   make(map[K]*memo[V]),
	}
}

// WithEqual installs a value comparison used for early cutoff: when a
// recomputation produces an equal value, dependents are not
// invalidated. Without it every recomputation counts as a change.
func (q *Query[K, V]) WithEqual(eq func(a, b V) bool) *Query[K, V] {
	q.equal = eq
	return q
}

// Executions returns how many times the compute function has run, for
// tests and instrumentation.
func (q *Query[K, V]) Executions() uint64 {
	return q.execs.Load()
}

// Get returns the value for key, recomputing only if a dependency
// changed since the memoized result was produced.
func (q *Query[K, V]) Get(ctx *Ctx, key K) (V, error) {
	m, err := q.fetch(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	ctx.record(&querySlot[K, V]{query: q, key: key}, m.durability)
	return m.value, nil
}

// fetch returns an up-to-date memo for key without recording a
// dependency edge for the caller.
func (q *Query[K, V]) fetch(ctx *Ctx, key K) (*memo[V], error) {
	if err := ctx.CheckCancelled(); err != nil {
		return nil, err
	}
	now := ctx.db.Revision()

	// Snapshot verifiedAt while holding the lock; concurrent readers
	// re-stamp it, and a stale snapshot only costs a redundant check.
	q.mu.Lock()
	m := q.memos[key]
	var verifiedAt Revision
	if m != nil {
		verifiedAt = m.verifiedAt
	}
	q.mu.Unlock()

	if m != nil {
		if verifiedAt == now {
			return m, nil
		}
		// Durability shortcut: if nothing at or above the memo's
		// durability changed, all dependencies are untouched.
		if !ctx.db.changedSince(m.durability, verifiedAt) {
			q.mu.Lock()
			m.verifiedAt = now
			q.mu.Unlock()
			return m, nil
		}
		changed, err := q.anyDepChanged(ctx, m, verifiedAt)
		if err != nil {
			return nil, err
		}
		if !changed {
			q.mu.Lock()
			m.verifiedAt = now
			q.mu.Unlock()
			return m, nil
		}
	}
	return q.recompute(ctx, key, m, now)
}

// anyDepChanged walks the recorded dependencies in durability order
// (most volatile first) and reports whether any of them produced a
// new value after the memo was last verified.
func (q *Query[K, V]) anyDepChanged(ctx *Ctx, m *memo[V], verifiedAt Revision) (bool, error) {
	for _, d := range m.deps {
		changed, err := d.slot.maybeChangedAfter(ctx, verifiedAt)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

func (q *Query[K, V]) recompute(ctx *Ctx, key K, old *memo[V], now Revision) (*memo[V], error) {
	ctx.push(q.name, key)
	q.execs.Add(1)
	value, err := q.compute(ctx, key)
	f := ctx.pop()
	if err != nil {
		// A cancelled or failed computation installs nothing, so a
		// later call starts from a clean slate.
		return nil, err
	}

	durability := DurabilityHigh
	for _, d := range f.deps {
		if d.durability < durability {
			durability = d.durability
		}
	}
	sort.SliceStable(f.deps, func(i, j int) bool {
		return f.deps[i].durability < f.deps[j].durability
	})

	m := &memo[V]{
		value:      value,
		changedAt:  now,
		verifiedAt: now,
		durability: durability,
		deps:       f.deps,
	}
	if old != nil && q.equal != nil && q.equal(old.value, value) {
		m.value = old.value
		m.changedAt = old.changedAt
	}

	q.mu.Lock()
	q.memos[key] = m
	q.mu.Unlock()
	return m, nil
}

// querySlot is the dependency edge to one (query, key) memo.
type querySlot[K comparable, V any] struct {
	query *Query[K, V]
	key   K
}

func (s *querySlot[K, V]) maybeChangedAfter(ctx *Ctx, since Revision) (bool, error) {
	m, err := s.query.fetch(ctx, s.key)
	if err != nil {
		return false, err
	}
	return m.changedAt > since, nil
}

func (s *querySlot[K, V]) describe() string {
	return fmt.Sprintf("%s(%v)", s.query.name, s.key)
}
