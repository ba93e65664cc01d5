// Package table implements the binding-table primitive: a mapping from
// interned name to binding that distinguishes "absent" from "present but
// unresolved" via a sentinel, and whose enumeration tolerates concurrent
// tombstoning, using a bit.Set to track which slots have been deleted
// without shrinking the backing map.
package table

import (
	"github.com/glyphlang/glyph/internal/symbol"
	"github.com/glyphlang/glyph/internal/util/collection/bit"
)

// Binding is kept as `any` here so this package has no dependency on the
// module package's concrete binding type; callers instantiate Table[B] with
// their own cell type.
type slot[B any] struct {
	value B
	live  bool
}

// Table is a concurrent-safe-by-convention mapping name -> binding.
// Concurrency safety is provided by the caller (the owning module's lock),
// per the design's "all mutations... performed under the owning module's
// lock" rule; Table itself does no locking so that callers can batch a
// lookup and an insert under one critical section (the "bucket-pointer"
// pattern).
type Table[B any] struct {
	order []symbol.Name
	index map[symbol.Name]int
	slots []slot[B]
	live  bit.Set
}

// New constructs an empty Table.
func New[B any]() *Table[B] {
	return &Table[B]{index: make(map[symbol.Name]int)}
}

// Get returns the stored value for name and true if a live cell exists;
// otherwise the zero value and false. A tombstoned (deleted) cell is
// reported exactly as an absent one.
func (t *Table[B]) Get(name symbol.Name) (B, bool) {
	var zero B

	i, ok := t.index[name]
	if !ok || !t.slots[i].live {
		return zero, false
	}

	return t.slots[i].value, true
}

// Slot returns a mutable bucket pointer for name: an index that
// GetOrInsert-style callers can use to atomically check-then-set within a
// single critical section, creating the slot with zero value if it did
// not already exist (live or not).
func (t *Table[B]) Slot(name symbol.Name) int {
	if i, ok := t.index[name]; ok {
		return i
	}

	i := len(t.slots)
	t.slots = append(t.slots, slot[B]{})
	t.index[name] = i
	t.order = append(t.order, name)

	return i
}

// At returns the current value and liveness at a slot index previously
// returned by Slot.
func (t *Table[B]) At(i int) (B, bool) {
	return t.slots[i].value, t.slots[i].live
}

// SetAt installs value as live at a slot index previously returned by
// Slot, completing a bucket-pointer get-or-insert.
func (t *Table[B]) SetAt(i int, value B) {
	t.slots[i].value = value
	t.slots[i].live = true
	t.live.Insert(uint(i))
}

// Insert stores value under name, creating or overwriting the slot.
func (t *Table[B]) Insert(name symbol.Name, value B) {
	i := t.Slot(name)
	t.SetAt(i, value)
}

// Delete tombstones name's cell, if any. Enumeration and Get will treat it
// as absent from then on, but the slot index remains stable for anyone
// still holding it from a prior Slot call.
func (t *Table[B]) Delete(name symbol.Name) {
	i, ok := t.index[name]
	if !ok {
		return
	}

	var zero B
	t.slots[i].value = zero
	t.slots[i].live = false
	t.live.Remove(uint(i))
}

// Range calls fn for every live cell, in insertion order. fn may not
// mutate the table; callers needing to delete while ranging should collect
// names first.
func (t *Table[B]) Range(fn func(name symbol.Name, value B)) {
	for i, name := range t.order {
		if t.slots[i].live {
			fn(name, t.slots[i].value)
		}
	}
}

// Len returns the number of live cells.
func (t *Table[B]) Len() int {
	return int(t.live.Count())
}
