package strata

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

// EntityId identifies a logical game object. It is an opaque key and
// carries no data itself.
type EntityId uint64

// NoEntity is the reserved "no entity" marker. An IdAllocator never
// issues it.
const NoEntity EntityId = 0

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e EntityId) LogValue() slog.Value {
	return slog.StringValue(e.String())
}

func (e EntityId) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EntityId) UnmarshalText(text []byte) error {
	id, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return err
	}

	*e = EntityId(id)
	return nil
}

// IdAllocator issues process-lifetime unique entity ids. Ids start at 1,
// are never reused and never recycled. The zero value is ready to use.
type IdAllocator struct {
	next atomic.Uint64
}

// Next returns a fresh EntityId. Safe for concurrent use.
func (a *IdAllocator) Next() EntityId {
	return EntityId(a.next.Add(1))
}

// EnsureAtLeast advances the allocator so that every id up to and
// including floor counts as already issued. Used when ids enter the
// process from outside, e.g. a restored snapshot, so Next never hands
// one of them out again. Never moves the allocator backwards. Safe for
// concurrent use.
func (a *IdAllocator) EnsureAtLeast(floor EntityId) {
	for {
		current := a.next.Load()
		if current >= uint64(floor) {
			return
		}

		if a.next.CompareAndSwap(current, uint64(floor)) {
			return
		}
	}
}
