package store

import "slices"

// Table is an ID addressed collection of one entity kind. It remembers the
// insertion order and owns the kind's ID counter.
type Table[T any] struct {
	rows  map[int]*T
	order []int
	last  int // last ID handed out
}

func newTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[int]*T)}
}

// Insert hands out the next ID, builds the row with it and appends it.
func (t *Table[T]) Insert(build func(id int) *T) *T {
	t.last++
	row := build(t.last)
	t.rows[t.last] = row
	t.order = append(t.order, t.last)
	return row
}

// Get returns the live row for id.
func (t *Table[T]) Get(id int) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// Delete removes id. The counter is not rewound.
func (t *Table[T]) Delete(id int) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	if i := slices.Index(t.order, id); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
	return true
}

// IDs returns the IDs in insertion order.
func (t *Table[T]) IDs() []int {
	return slices.Clone(t.order)
}

// All returns the live rows in insertion order.
func (t *Table[T]) All() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// Find returns the first row, in insertion order, matching fn.
func (t *Table[T]) Find(fn func(*T) bool) (*T, bool) {
	for _, id := range t.order {
		if row := t.rows[id]; fn(row) {
			return row, true
		}
	}
	return nil, false
}

func (t *Table[T]) Len() int {
	return len(t.order)
}

// Last is the most recently issued ID, zero when none was issued.
func (t *Table[T]) Last() int {
	return t.last
}

// Reset drops every row and rewinds the counter to zero.
func (t *Table[T]) Reset() {
	t.rows = make(map[int]*T)
	t.order = nil
	t.last = 0
}

// restore appends a row with a known ID. Used when rebuilding from a snapshot.
func (t *Table[T]) restore(id int, row *T) {
	t.rows[id] = row
	t.order = append(t.order, id)
}
