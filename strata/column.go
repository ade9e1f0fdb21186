// Package strata implements the columnar entity/component store: growable
// typed columns, sparse sets mapping entities to dense rows, and entity id
// allocation.
//
// Stored component types must be relocatable as raw values: growth and
// compaction move elements to new slots without re-constructing them, so a
// type must not hold interior pointers into itself. Types that need
// teardown beyond what the garbage collector provides can implement
// Finalizer.
package strata

import (
	"fmt"
	"math"
	"unsafe"
)

// Finalizer is implemented by component types that must release something
// when their slot is destroyed. Columns call Finalize on an element before
// removal via SwapRemove and for every live element on Destroy. Replace
// never finalizes, ownership of the old value moves to the caller.
type Finalizer interface {
	Finalize()
}

// Row is the dense position of an element inside a column. Stable only
// until the next removal affecting that slot.
type Row uint32

// zeroBase is the address handed out for elements of zero-sized types.
var zeroBase struct{}

// Column is a homogeneous, growable, contiguous store for values of
// exactly one component kind. Capacity and length are tracked explicitly;
// the backing slice always holds exactly cap elements.
//
// Zero-sized types are a degenerate case: no buffer exists, capacity is
// unbounded and only the length counter moves.
type Column[T any] struct {
	ty *ComponentType

	// backing holds cap elements, live ones in backing[:len]
	backing []T

	// memory points to the first element of backing
	memory unsafe.Pointer

	len, cap int

	itemSize uintptr

	finalize func(*T)

	destroyed bool
}

// NewColumn creates a column for T with the given initial capacity.
// No memory is allocated when capacity is zero or T is zero-sized.
func NewColumn[T any](capacity int) *Column[T] {
	ty := TypeOf[T]()

	c := &Column[T]{
		ty:       ty,
		itemSize: ty.Size,
	}

	if _, ok := any((*T)(nil)).(Finalizer); ok {
		c.finalize = func(item *T) { any(item).(Finalizer).Finalize() }
	}

	if c.itemSize == 0 {
		c.cap = math.MaxInt
		return c
	}

	if capacity > 0 {
		c.backing = make([]T, capacity)
		c.memory = unsafe.Pointer(unsafe.SliceData(c.backing))
		c.cap = capacity
	}

	return c
}

// Type returns the component kind this column was created for.
func (c *Column[T]) Type() *ComponentType {
	return c.ty
}

func (c *Column[T]) Len() int {
	return c.len
}

// Cap returns the slot capacity. Unbounded (math.MaxInt) for zero-sized
// element types.
func (c *Column[T]) Cap() int {
	return c.cap
}

func (c *Column[T]) ensureAlive() {
	if c.destroyed {
		panic("column used after Destroy")
	}
}

// grow relocates the live elements into a fresh backing slice. Go's
// allocator cannot extend an allocation at its current address, so growth
// always takes the relocation path: elements move as raw values and are
// not re-constructed. The old backing is released to the collector without
// finalizing, the elements still live, just elsewhere.
//
// The first real allocation gets 8 slots; after that capacity advances by
// half steps. A capacity-1 column has no half step to take and still must
// advance by at least one slot.
func (c *Column[T]) grow() {
	newCap := 8
	if c.backing != nil {
		newCap = c.cap + c.cap/2
		if newCap == c.cap {
			newCap = c.cap + 1
		}
	}

	newBacking := make([]T, newCap)
	copy(newBacking, c.backing[:c.len])

	c.backing = newBacking
	c.memory = unsafe.Pointer(unsafe.SliceData(c.backing))
	c.cap = newCap
}

// Push appends value at the end of the column, growing first if needed.
func (c *Column[T]) Push(value T) {
	c.ensureAlive()

	if c.itemSize == 0 {
		// no write happens, but the length still counts for the index
		// arithmetic done by callers
		c.len += 1
		return
	}

	if c.len == c.cap {
		c.grow()
	}

	c.backing[c.len] = value
	c.len += 1
}

// Replace swaps the element at row for value and returns the previous
// element. The previous element is not finalized, it now belongs to the
// caller.
func (c *Column[T]) Replace(row Row, value T) T {
	c.ensureAlive()

	if int(row) >= c.len {
		panic(fmt.Sprintf("row %d out of bounds (len %d)", row, c.len))
	}

	if c.itemSize == 0 {
		return value
	}

	old := c.backing[row]
	c.backing[row] = value
	return old
}

// SwapRemove finalizes the element at row and moves the last live element
// into its slot. O(1), but the caller must fix up any mapping it keeps
// from the old last row to its entity.
func (c *Column[T]) SwapRemove(row Row) {
	c.ensureAlive()

	if int(row) >= c.len {
		panic(fmt.Sprintf("row %d out of bounds (len %d)", row, c.len))
	}

	newLen := c.len - 1

	if c.itemSize != 0 {
		if c.finalize != nil {
			c.finalize(&c.backing[row])
		}

		if int(row) < newLen {
			// relocate the last element, no finalizer runs for the move
			c.backing[row] = c.backing[newLen]
		}

		if c.ty.HasPointers {
			// clear the vacated slot so the collector can release it
			var zero T
			c.backing[newLen] = zero
		}
	}

	c.len = newLen
}

// View returns the live elements. The slice must not be retained across
// any Push, SwapRemove, Drain or Destroy of this column.
func (c *Column[T]) View() []T {
	c.ensureAlive()

	if c.itemSize == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(&zeroBase)), c.len)
	}

	return c.backing[:c.len:c.len]
}

// At returns a pointer to the element at row. Valid until the next
// structural mutation of the column.
func (c *Column[T]) At(row Row) *T {
	c.ensureAlive()

	if int(row) >= c.len {
		panic(fmt.Sprintf("row %d out of bounds (len %d)", row, c.len))
	}

	if c.itemSize == 0 {
		return (*T)(unsafe.Pointer(&zeroBase))
	}

	return &c.backing[row]
}

// Drain hands the live elements over to the caller and leaves the column
// empty. No finalizers run, ownership of the elements moves with the
// returned slice.
func (c *Column[T]) Drain() []T {
	c.ensureAlive()

	var values []T
	if c.itemSize == 0 {
		values = unsafe.Slice((*T)(unsafe.Pointer(&zeroBase)), c.len)
	} else {
		values = c.backing[:c.len:c.len]
		c.backing = nil
		c.memory = nil
		c.cap = 0
	}

	c.len = 0
	return values
}

// Destroy finalizes every live element in row order and releases the
// backing memory. The column must not be used afterwards.
func (c *Column[T]) Destroy() {
	c.ensureAlive()

	if c.itemSize != 0 && c.finalize != nil {
		for idx := 0; idx < c.len; idx++ {
			c.finalize(&c.backing[idx])
		}
	}

	c.backing = nil
	c.memory = nil
	c.len = 0
	c.cap = 0
	c.destroyed = true
}
