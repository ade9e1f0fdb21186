// Profiling:
// go build ./profile/sparseset
// go tool pprof -http=":8000" -nodefraction=0.001 ./sparseset cpu.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/quarry-ecs/quarry/strata"
)

type transform struct {
	X, Y, Angle float64
}

func main() {
	rounds := 100
	entities := 10_000

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, entities)
	p.Stop()
}

func run(rounds, entities int) {
	var ids strata.IdAllocator
	set := strata.NewSparseSet[transform](0)

	for range rounds {
		spawned := make([]strata.EntityId, 0, entities)
		for range entities {
			id := ids.Next()
			set.Add(id, transform{X: float64(id)})
			spawned = append(spawned, id)
		}

		var sum float64
		for _, value := range set.All() {
			value.Angle += 0.1
			sum += value.X
		}
		_ = sum

		// remove in an order that exercises compaction
		for idx := len(spawned) - 1; idx >= 0; idx -= 2 {
			set.Remove(spawned[idx])
		}
		for idx := 0; idx < len(spawned); idx += 2 {
			set.Remove(spawned[idx])
		}
	}
}
