package strata

import (
	"fmt"
	"iter"
)

// SparseSet gives every entity at most one value of one component kind,
// with O(1) membership test, insert, lookup and remove. The values live
// in a dense column with no holes; removal compacts by moving the last
// element into the freed slot.
//
// The dense entities slice runs parallel to the column, so the index
// fix-up after compaction is O(1): the entity occupying the old last row
// is entities[last].
type SparseSet[T any] struct {
	index    map[EntityId]Row
	entities []EntityId
	column   *Column[T]
}

// NewSparseSet creates an empty set with the given initial column
// capacity.
func NewSparseSet[T any](capacity int) *SparseSet[T] {
	return &SparseSet[T]{
		index:  make(map[EntityId]Row, capacity),
		column: NewColumn[T](capacity),
	}
}

// Type returns the component kind stored in this set.
func (s *SparseSet[T]) Type() *ComponentType {
	return s.column.Type()
}

func (s *SparseSet[T]) Len() int {
	return len(s.index)
}

// Has reports whether entity currently holds a value in this set.
func (s *SparseSet[T]) Has(entity EntityId) bool {
	_, ok := s.index[entity]
	return ok
}

// Add gives entity the value. If the entity already held one, the old
// value is returned with replaced set to true and the set size does not
// change.
func (s *SparseSet[T]) Add(entity EntityId, value T) (old T, replaced bool) {
	if entity == NoEntity {
		panic("cannot add a component to NoEntity")
	}

	if row, ok := s.index[entity]; ok {
		return s.column.Replace(row, value), true
	}

	s.index[entity] = Row(s.column.Len())
	s.entities = append(s.entities, entity)
	s.column.Push(value)

	return old, false
}

// Remove drops the entity's value. Returns false if the entity held none.
// The entity formerly stored at the last dense row is relocated into the
// freed slot and its index entry rewritten.
func (s *SparseSet[T]) Remove(entity EntityId) bool {
	row, ok := s.index[entity]
	if !ok {
		return false
	}

	s.column.SwapRemove(row)

	last := Row(len(s.entities) - 1)
	if row != last {
		moved := s.entities[last]
		s.entities[row] = moved
		s.index[moved] = row
	}

	s.entities = s.entities[:last]
	delete(s.index, entity)

	return true
}

// Get returns a pointer to the entity's value, or false if it holds none.
// The pointer is valid until the next structural mutation of the set.
func (s *SparseSet[T]) Get(entity EntityId) (*T, bool) {
	row, ok := s.index[entity]
	if !ok {
		return nil, false
	}

	return s.column.At(row), true
}

// All yields one (entity, value pointer) pair per live entry. Rows are
// visited in monotonically increasing order, so no dense slot is yielded
// twice and the pointers of one pass never alias. The set must not be
// structurally mutated while iterating; iteration order carries no
// meaning.
func (s *SparseSet[T]) All() iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		access := s.column.Access()

		for row, entity := range s.entities {
			if !yield(entity, (*T)(access.At(Row(row)))) {
				return
			}
		}
	}
}

// AnyOne returns a single live entry, any one of them. Useful for
// component kinds expected to have at most one instance.
func (s *SparseSet[T]) AnyOne() (EntityId, *T, bool) {
	if len(s.entities) == 0 {
		return NoEntity, nil, false
	}

	return s.entities[0], s.column.At(0), true
}

// TakeAll drains the set into two parallel slices positioned by dense
// row and leaves the set empty. Ownership of the values moves to the
// caller, no finalizers run.
func (s *SparseSet[T]) TakeAll() ([]EntityId, []T) {
	entities := s.entities
	values := s.column.Drain()

	s.entities = nil
	clear(s.index)

	return entities, values
}

// Destroy finalizes all stored values and releases the set's memory.
// The set must not be used afterwards.
func (s *SparseSet[T]) Destroy() {
	s.column.Destroy()
	s.entities = nil
	s.index = nil
}

// assertInvariants panics if the density invariants do not hold. Called
// from tests after every mutation.
func (s *SparseSet[T]) assertInvariants() {
	if s.column.Len() != len(s.index) || len(s.entities) != len(s.index) {
		panic(fmt.Sprintf(
			"sparse set out of sync: column %d, index %d, entities %d",
			s.column.Len(), len(s.index), len(s.entities)))
	}

	for entity, row := range s.index {
		if int(row) >= s.column.Len() {
			panic(fmt.Sprintf("entity %s maps to row %d beyond len %d", entity, row, s.column.Len()))
		}

		if s.entities[row] != entity {
			panic(fmt.Sprintf("dense slot %d holds %s, index says %s", row, s.entities[row], entity))
		}
	}
}
