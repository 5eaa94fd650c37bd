package db

import (
	"fmt"
	"sync"
)

// Input is a named table of base facts set directly by the host, the
// only values in the system that change from outside. Everything else
// is derived from inputs by queries.
type Input[K comparable, V any] struct {
	db         *DB
	name       string
	durability Durability

	mu    sync.Mutex
	slots map[K]*inputSlot[V]
}

type inputSlot[V any] struct {
	value     V
	changedAt Revision
}

func NewInput[K comparable, V any](db *DB, name string, durability Durability) *Input[K, V] {
	return &Input[K, V]{
		db:         db,
		name:       name,
		durability: durability,
		slots:      make(map[K]*inputSlot[V]),
	}
}

// Set installs a new value for key at the revision of the surrounding
// Write.
func (in *Input[K, V]) Set(w *Writer, key K, value V) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.slots[key] = &inputSlot[V]{value: value, changedAt: w.db.Revision()}
	w.db.markChanged(in.durability)
}

// Delete removes key entirely. Dependents see the removal as a change
// and fail on their next recomputation when they read the input.
func (in *Input[K, V]) Delete(w *Writer, key K) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.slots, key)
	w.db.markChanged(in.durability)
}

// Get reads the input inside a query, recording the dependency.
func (in *Input[K, V]) Get(ctx *Ctx, key K) (V, error) {
	in.mu.Lock()
	slot, ok := in.slots[key]
	in.mu.Unlock()
	if !ok {
		var zero V
		return zero, fmt.Errorf("db: input %s(%v) is not set", in.name, key)
	}
	ctx.record(&inputDep[K, V]{input: in, key: key}, in.durability)
	return slot.value, nil
}

// Current reads the present value outside the query system, for
// writer-side decisions such as validating an edit against the text
// it will replace.
func (in *Input[K, V]) Current(key K) (V, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	slot, ok := in.slots[key]
	if !ok {
		var zero V
		return zero, false
	}
	return slot.value, true
}

type inputDep[K comparable, V any] struct {
	input *Input[K, V]
	key   K
}

func (d *inputDep[K, V]) maybeChangedAfter(_ *Ctx, since Revision) (bool, error) {
	d.input.mu.Lock()
	defer d.input.mu.Unlock()
	slot, ok := d.input.slots[d.key]
	if !ok {
		// Deleted counts as changed.
		return true, nil
	}
	return slot.changedAt > since, nil
}

func (d *inputDep[K, V]) describe() string {
	return fmt.Sprintf("%s(%v)", d.input.name, d.key)
}
