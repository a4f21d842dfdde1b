package gen

import (
	"github.com/go-gl/mathgl/mgl64"

	"streamworld.dev/internal/sim/world/render"
	"streamworld.dev/internal/sim/world/terrain/biome"
)

// SpawnTree creates a trunk at (x,y,z) topped by a column of shrinking
// foliage spheres. Tree primitives bypass the pool.
func (g *Generator) SpawnTree(x, y, z float64) []*render.Entity {
	h := g.treeHeight()
	fh := float64(h)

	out := make([]*render.Entity, 0, h+1)
	out = append(out, g.scene.Create(render.Spec{
		Model:    render.ModelCube,
		Position: mgl64.Vec3{x, y, z},
		Scale:    mgl64.Vec3{0.5, fh, 0.5},
		Color:    biome.Brown,
		Collider: render.ColliderBox,
	}))
	for i := 0; i < h; i++ {
		t := float64(i) / fh
		s := 2 - t
		out = append(out, g.scene.Create(render.Spec{
			Model:    render.ModelSphere,
			Position: mgl64.Vec3{x, y + fh - float64(i), z},
			Scale:    mgl64.Vec3{s, s, s},
			Color:    biome.LerpColor(biome.Green, biome.Lime, t),
		}))
	}
	return out
}

// treeHeight draws uniformly from [TreeHeightMin, TreeHeightMax].
func (g *Generator) treeHeight() int {
	lo, hi := g.cfg.TreeHeightMin, g.cfg.TreeHeightMax
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}
