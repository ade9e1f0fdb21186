package strata

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type Health struct {
	Current, Max int
}

func TestSparseSet_RoundTrip(t *testing.T) {
	set := NewSparseSet[Health](0)

	entity := EntityId(1)
	_, replaced := set.Add(entity, Health{Current: 10, Max: 10})
	require.False(t, replaced)
	set.assertInvariants()

	value, ok := set.Get(entity)
	require.True(t, ok)
	require.Equal(t, Health{Current: 10, Max: 10}, *value)

	require.True(t, set.Remove(entity))
	set.assertInvariants()

	_, ok = set.Get(entity)
	require.False(t, ok)
	require.False(t, set.Remove(entity))
}

func TestSparseSet_ReplaceSemantics(t *testing.T) {
	set := NewSparseSet[Health](0)

	entity := EntityId(7)
	set.Add(entity, Health{Current: 1})

	old, replaced := set.Add(entity, Health{Current: 2})
	require.True(t, replaced)
	require.Equal(t, Health{Current: 1}, old)
	require.Equal(t, 1, set.Len())

	value, _ := set.Get(entity)
	require.Equal(t, Health{Current: 2}, *value)
}

func TestSparseSet_CompactionOnRemove(t *testing.T) {
	set := NewSparseSet[Health](0)

	a, b, c := EntityId(1), EntityId(2), EntityId(3)
	set.Add(a, Health{Current: 1})
	set.Add(b, Health{Current: 2})
	set.Add(c, Health{Current: 3})

	require.Equal(t, Row(0), set.index[a])
	require.Equal(t, Row(1), set.index[b])
	require.Equal(t, Row(2), set.index[c])

	require.True(t, set.Remove(b))
	set.assertInvariants()

	// c was relocated from the last slot into b's freed slot
	require.Equal(t, Row(0), set.index[a])
	require.Equal(t, Row(1), set.index[c])

	_, ok := set.Get(b)
	require.False(t, ok)

	value, _ := set.Get(c)
	require.Equal(t, Health{Current: 3}, *value)

	seen := map[EntityId]int{}
	for entity, health := range set.All() {
		seen[entity] = health.Current
	}
	require.Equal(t, map[EntityId]int{a: 1, c: 3}, seen)
}

func TestSparseSet_RemoveLastKeepsOtherRows(t *testing.T) {
	set := NewSparseSet[Health](0)

	a, b := EntityId(1), EntityId(2)
	set.Add(a, Health{Current: 1})
	set.Add(b, Health{Current: 2})

	require.True(t, set.Remove(b))
	set.assertInvariants()

	require.Equal(t, Row(0), set.index[a])
}

func TestSparseSet_AddNoEntityPanics(t *testing.T) {
	set := NewSparseSet[Health](0)
	require.Panics(t, func() { set.Add(NoEntity, Health{}) })
}

func TestSparseSet_MutableIteration(t *testing.T) {
	set := NewSparseSet[Health](0)

	for id := EntityId(1); id <= 10; id++ {
		set.Add(id, Health{Current: int(id)})
	}

	for _, health := range set.All() {
		health.Current *= 2
	}

	for id := EntityId(1); id <= 10; id++ {
		value, ok := set.Get(id)
		require.True(t, ok)
		require.Equal(t, int(id)*2, value.Current)
	}
}

func TestSparseSet_IterationYieldsEachSlotOnce(t *testing.T) {
	set := NewSparseSet[Health](0)

	for id := EntityId(1); id <= 100; id++ {
		set.Add(id, Health{Current: int(id)})
	}

	for id := EntityId(1); id <= 50; id++ {
		set.Remove(id * 2)
	}

	seen := map[EntityId]bool{}
	count := 0
	for entity := range set.All() {
		require.False(t, seen[entity])
		seen[entity] = true
		count++
	}

	require.Equal(t, set.Len(), count)
}

func TestSparseSet_TakeAll(t *testing.T) {
	set := NewSparseSet[Health](0)

	set.Add(1, Health{Current: 1})
	set.Add(2, Health{Current: 2})
	set.Add(3, Health{Current: 3})

	entities, values := set.TakeAll()
	require.Len(t, entities, 3)
	require.Len(t, values, 3)

	// the slices run parallel, positioned by dense row
	for idx, entity := range entities {
		require.Equal(t, int(entity), values[idx].Current)
	}

	require.Equal(t, 0, set.Len())
	set.assertInvariants()

	// the set stays usable
	set.Add(4, Health{Current: 4})
	require.True(t, set.Has(4))
}

func TestSparseSet_AnyOne(t *testing.T) {
	set := NewSparseSet[Health](0)

	_, _, ok := set.AnyOne()
	require.False(t, ok)

	set.Add(5, Health{Current: 5})

	entity, value, ok := set.AnyOne()
	require.True(t, ok)
	require.Equal(t, EntityId(5), entity)
	require.Equal(t, 5, value.Current)
}

func TestSparseSet_ZeroSizedComponents(t *testing.T) {
	set := NewSparseSet[Marker](0)

	for id := EntityId(1); id <= 64; id++ {
		set.Add(id, Marker{})
		set.assertInvariants()
	}

	require.True(t, set.Has(17))
	require.True(t, set.Remove(17))
	set.assertInvariants()
	require.False(t, set.Has(17))
	require.Equal(t, 63, set.Len())
}

func TestSparseSet_InvariantsUnderRandomOps(t *testing.T) {
	set := NewSparseSet[Health](0)
	reference := map[EntityId]Health{}

	rng := rand.New(rand.NewPCG(1, 2))

	for range 10_000 {
		entity := EntityId(rng.Uint64N(64) + 1)

		if rng.Uint64N(2) == 0 {
			value := Health{Current: int(rng.Uint64N(1000))}
			_, replaced := set.Add(entity, value)
			_, existed := reference[entity]
			require.Equal(t, existed, replaced)
			reference[entity] = value
		} else {
			removed := set.Remove(entity)
			_, existed := reference[entity]
			require.Equal(t, existed, removed)
			delete(reference, entity)
		}

		set.assertInvariants()
	}

	require.Equal(t, len(reference), set.Len())
	for entity, want := range reference {
		got, ok := set.Get(entity)
		require.True(t, ok)
		require.Equal(t, want, *got)
	}
}

func BenchmarkSparseSet_AddRemove(b *testing.B) {
	set := NewSparseSet[Health](0)

	b.ReportAllocs()

	var id EntityId
	for b.Loop() {
		id++
		set.Add(id, Health{Current: int(id)})
		if id > 1000 {
			set.Remove(id - 1000)
		}
	}
}

func BenchmarkSparseSet_Iterate1k(b *testing.B) {
	set := NewSparseSet[Health](0)
	for id := EntityId(1); id <= 1000; id++ {
		set.Add(id, Health{Current: int(id)})
	}

	b.ReportAllocs()

	var sum int
	for b.Loop() {
		for _, health := range set.All() {
			sum += health.Current
		}
	}
	_ = sum
}
