package quarry

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/quarry-ecs/quarry/strata"
)

// anyKind is the type-erased view of a Kind used by snapshots.
type anyKind interface {
	typeName() string
	snapshotValue() (any, error)
	restoreValue(node *yaml.Node) error
	maxEntity() strata.EntityId
}

func (k *Kind[T]) typeName() string {
	return k.ty.Name
}

func (k *Kind[T]) maxEntity() strata.EntityId {
	var max strata.EntityId

	k.Shared(func(set *strata.SparseSet[T]) {
		for entity := range set.All() {
			if entity > max {
				max = entity
			}
		}
	})

	return max
}

func (k *Kind[T]) snapshotValue() (any, error) {
	var value any
	var err error

	k.Shared(func(set *strata.SparseSet[T]) {
		value, err = set.MarshalYAML()
	})

	return value, err
}

func (k *Kind[T]) restoreValue(node *yaml.Node) error {
	var err error

	k.Exclusive(func(set *strata.SparseSet[T]) {
		err = set.UnmarshalYAML(node)
	})

	return err
}

// UnknownKindError is returned by Restore when the input names a
// component kind that was never registered.
type UnknownKindError struct {
	Name string
}

func (e UnknownKindError) Error() string {
	return fmt.Sprintf("snapshot contains unknown component kind %q", e.Name)
}

// Snapshot writes all registered kinds as one yaml document, keyed by
// kind name, each kind a mapping from entity id to component value.
func (r *Registry) Snapshot(w io.Writer) error {
	r.mu.RLock()
	kinds := make([]anyKind, 0, len(r.kinds))
	for _, kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	r.mu.RUnlock()

	doc := make(map[string]any, len(kinds))
	for _, kind := range kinds {
		value, err := kind.snapshotValue()
		if err != nil {
			return fmt.Errorf("snapshot kind %s: %w", kind.typeName(), err)
		}

		doc[kind.typeName()] = value
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}

// Restore loads a snapshot produced by Snapshot into this registry's
// kinds. All kinds named by the input must have been registered via
// KindOf first. Values load through repeated Add, so entries already
// present are overwritten and load order is unspecified.
//
// The id allocator is advanced past every restored entity id, so ids
// issued by NewEntity after a restore never collide with restored
// entities.
//
// Restore is not atomic: when it returns an error, kinds and entries
// applied before the failure remain in place.
func (r *Registry) Restore(rd io.Reader) error {
	var doc map[string]yaml.Node
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}

		return err
	}

	for name, node := range doc {
		r.mu.RLock()
		kind := r.byName[name]
		r.mu.RUnlock()

		if kind == nil {
			return UnknownKindError{Name: name}
		}

		if err := kind.restoreValue(&node); err != nil {
			return fmt.Errorf("restore kind %s: %w", name, err)
		}

		r.ids.EnsureAtLeast(kind.maxEntity())
	}

	return nil
}
