package quarry

import (
	"log/slog"
	"sync"

	"github.com/quarry-ecs/quarry/strata"
)

// Registry is the composition root: one sparse set per component kind,
// each behind its own reader/writer lock, plus the process-lifetime
// entity id allocator.
//
// Callers obtain access to exactly one kind at a time. Consistency
// across kinds is the caller's responsibility, the Registry orders
// nothing beyond a single access window.
type Registry struct {
	ids strata.IdAllocator

	mu     sync.RWMutex
	kinds  map[*strata.ComponentType]anyKind
	byName map[string]anyKind
}

func New() *Registry {
	return &Registry{
		kinds:  map[*strata.ComponentType]anyKind{},
		byName: map[string]anyKind{},
	}
}

// NewEntity allocates a fresh entity id. Ids are unique for the process
// lifetime, never reused and never recycled. Safe for concurrent use.
func (r *Registry) NewEntity() strata.EntityId {
	return r.ids.Next()
}

// KindCount returns the number of registered component kinds.
func (r *Registry) KindCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.kinds)
}

// Kind is one component kind's sparse set behind an independent
// reader/writer lock.
type Kind[T any] struct {
	ty *strata.ComponentType

	mu  sync.RWMutex
	set *strata.SparseSet[T]
}

// KindOf finds or registers the kind storing T in the given registry.
// Type identity is resolved here, once, at the registration boundary;
// every later access goes through the monomorphized Kind and checks
// nothing.
func KindOf[T any](r *Registry) *Kind[T] {
	ty := strata.TypeOf[T]()

	r.mu.RLock()
	existing := r.kinds[ty]
	r.mu.RUnlock()

	if existing != nil {
		return existing.(*Kind[T])
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.kinds[ty]; existing != nil {
		return existing.(*Kind[T])
	}

	kind := &Kind[T]{
		ty:  ty,
		set: strata.NewSparseSet[T](0),
	}

	r.kinds[ty] = kind
	r.byName[ty.Name] = kind

	slog.Debug("Component kind registered", slog.String("name", ty.Name))

	return kind
}

// Shared runs fn while holding the kind's lock shared with other
// readers. fn must not mutate the set and must not retain pointers into
// it past the call.
func (k *Kind[T]) Shared(fn func(set *strata.SparseSet[T])) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	fn(k.set)
}

// Exclusive runs fn with exclusive access to the kind's set. Pointers
// obtained inside must not be retained past the call.
func (k *Kind[T]) Exclusive(fn func(set *strata.SparseSet[T])) {
	k.mu.Lock()
	defer k.mu.Unlock()

	fn(k.set)
}
