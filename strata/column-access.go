package strata

import (
	"unsafe"
)

// ColumnAccess is a raw stride view over a column's live elements, used
// by iteration to avoid per-row bounds checks. It must be re-created
// after any structural mutation of the column.
type ColumnAccess struct {
	base   unsafe.Pointer
	stride uintptr
}

func (c *ColumnAccess) At(row Row) unsafe.Pointer {
	return unsafe.Add(c.base, c.stride*uintptr(row))
}

// Access creates a ColumnAccess over the column's current memory.
func (c *Column[T]) Access() ColumnAccess {
	c.ensureAlive()

	if c.itemSize == 0 {
		return ColumnAccess{
			base:   unsafe.Pointer(&zeroBase),
			stride: 0,
		}
	}

	return ColumnAccess{
		base:   c.memory,
		stride: c.itemSize,
	}
}
