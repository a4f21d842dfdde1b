package chunks

import (
	"sort"

	"streamworld.dev/internal/sim/world/logic/mathx"
	"streamworld.dev/internal/sim/world/terrain/gen"
)

type Key = gen.ChunkKey

// ComputeWantedChunks returns every chunk within Chebyshev distance radius of
// center, nearest ring first, then by CX, then by CZ.
func ComputeWantedChunks(center Key, radius int) []Key {
	if radius < 0 {
		radius = 0
	}
	type item struct {
		k    Key
		dist int
	}
	side := 2*radius + 1
	items := make([]item, 0, side*side)
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			items = append(items, item{
				k:    Key{CX: center.CX + dx, CZ: center.CZ + dz},
				dist: max(mathx.AbsInt(dx), mathx.AbsInt(dz)),
			})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].dist != items[j].dist {
			return items[i].dist < items[j].dist
		}
		return items[i].k.Less(items[j].k)
	})
	out := make([]Key, 0, len(items))
	for _, it := range items {
		out = append(out, it.k)
	}
	return out
}

// InRange reports whether k lies inside the square window around center.
func InRange(center, k Key, radius int) bool {
	return mathx.ChebyshevDist(center.CX, center.CZ, k.CX, k.CZ) <= radius
}
