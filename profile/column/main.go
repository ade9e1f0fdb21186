// Profiling:
// go build ./profile/column
// go tool pprof -http=":8000" -nodefraction=0.001 ./column mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/quarry-ecs/quarry/strata"
)

type body struct {
	X, Y, VX, VY float64
}

func main() {
	rounds := 200
	elements := 100_000

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, elements)
	p.Stop()
}

func run(rounds, elements int) {
	for range rounds {
		column := strata.NewColumn[body](0)

		for idx := range elements {
			column.Push(body{X: float64(idx)})
		}

		for column.Len() > 0 {
			column.SwapRemove(0)
		}

		column.Destroy()
	}
}
