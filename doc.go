/*
Package quarry provides a concurrent entity/component storage engine built
on dense, per-kind sparse sets.

Each component kind lives in its own sparse set: a map from entity id to
dense row, backed by a contiguous column with no holes. Lookups, inserts
and removals are O(1); removal compacts by relocating the last element
into the freed slot. The Registry holds one set per kind behind an
independent reader/writer lock and issues process-lifetime unique entity
ids.

Basic Usage:

	reg := quarry.New()

	player := reg.NewEntity()

	positions := quarry.KindOf[Position](reg)
	positions.Exclusive(func(set *strata.SparseSet[Position]) {
		set.Add(player, Position{X: 3, Y: 4})
	})

	positions.Shared(func(set *strata.SparseSet[Position]) {
		for entity, pos := range set.All() {
			fmt.Println(entity, pos.X, pos.Y)
		}
	})

Component types must be relocatable as raw values (no interior pointers
into themselves); see package strata for details and for the Finalizer
hook.
*/
package quarry
