package gen

import (
	"github.com/go-gl/mathgl/mgl64"

	"streamworld.dev/internal/sim/tuning"
	"streamworld.dev/internal/sim/world/logic/mathx"
	"streamworld.dev/internal/sim/world/render"
	"streamworld.dev/internal/sim/world/terrain/biome"
	"streamworld.dev/internal/sim/world/terrain/noise"
)

// Rand is the slice of math/rand/v2 the generator draws from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type Config struct {
	ChunkSize     int
	BiomeCellSize int

	DetailFrequency float64
	DetailWeight    float64
	HeightNorm      float64
	GroundThreshold float64

	TreeProbability float64
	TreeHeightMin   int
	TreeHeightMax   int
}

func ConfigFromTuning(t tuning.Tuning) Config {
	g := t.WorldGen
	return Config{
		ChunkSize:       t.ChunkSize,
		BiomeCellSize:   g.BiomeCellSize,
		DetailFrequency: g.DetailFrequency,
		DetailWeight:    g.DetailWeight,
		HeightNorm:      g.HeightNorm,
		GroundThreshold: g.GroundThreshold,
		TreeProbability: g.TreeProbability,
		TreeHeightMin:   g.TreeHeightMin,
		TreeHeightMax:   g.TreeHeightMax,
	}
}

// Deps are the collaborators a Generator drives. All of them belong to one world.
type Deps struct {
	Biomes  *biome.Map
	Heights *noise.Cache
	Detail  noise.Source
	Scene   *render.Scene
	Pool    *render.Pool
	Rand    Rand
}

// Generator materializes and tears down chunks.
//
// Not safe for concurrent use; the world loop goroutine owns it.
type Generator struct {
	cfg Config

	biomes  *biome.Map
	heights *noise.Cache
	detail  noise.Source
	scene   *render.Scene
	pool    *render.Pool
	rng     Rand

	loaded *LoadedSet
}

func NewGenerator(cfg Config, d Deps) *Generator {
	return &Generator{
		cfg:     cfg,
		biomes:  d.Biomes,
		heights: d.Heights,
		detail:  d.Detail,
		scene:   d.Scene,
		pool:    d.Pool,
		rng:     d.Rand,
		loaded:  NewLoadedSet(),
	}
}

func (g *Generator) Config() Config       { return g.cfg }
func (g *Generator) Loaded() *LoadedSet   { return g.loaded }
func (g *Generator) Pool() *render.Pool   { return g.pool }
func (g *Generator) Scene() *render.Scene { return g.scene }

// SurfaceHeight is the cached base height plus an uncached high-frequency detail term.
func (g *Generator) SurfaceHeight(wx, wz int) float64 {
	base := g.heights.Height(noise.Coord{X: wx, Z: wz})
	f := g.cfg.DetailFrequency
	return base + g.detail.Eval2(float64(wx)*f, float64(wz)*f)*g.cfg.DetailWeight
}

func (g *Generator) BiomeAt(wx, wz int) biome.ID {
	cell := g.cfg.BiomeCellSize
	return g.biomes.Lookup(biome.CellCoord{X: mathx.FloorDiv(wx, cell), Z: mathx.FloorDiv(wz, cell)})
}

// Generate loads the chunk at key and returns it. A key that is already
// loaded is returned as-is without touching the pool or the rng.
func (g *Generator) Generate(key ChunkKey) *Chunk {
	if ch, ok := g.loaded.Get(key); ok {
		return ch
	}
	size := g.cfg.ChunkSize
	ch := &Chunk{Key: key, Ground: make([]*render.Entity, 0, size*size)}

	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			wx := key.CX*size + x
			wz := key.CZ*size + z
			y := g.SurfaceHeight(wx, wz)

			spec := render.Spec{
				Model:    render.ModelCube,
				Position: mgl64.Vec3{float64(wx), y, float64(wz)},
				Scale:    mgl64.Vec3{1, 1, 1},
				Color:    biome.Color(g.BiomeAt(wx, wz), y, g.cfg.HeightNorm),
			}
			if y <= g.cfg.GroundThreshold {
				spec.Collider = render.ColliderBox
			}
			e := g.pool.AcquireWith(spec)
			ch.Ground = append(ch.Ground, e)

			// The draw happens only above the threshold so low terrain does not advance the rng.
			if y > g.cfg.GroundThreshold && g.rng.Float64() < g.cfg.TreeProbability {
				ch.Trees = append(ch.Trees, g.SpawnTree(float64(wx), y+1, float64(wz))...)
			}
		}
	}

	g.loaded.put(ch)
	return ch
}

// Unload returns the chunk's ground handles to the pool and destroys its trees.
// It reports whether anything was loaded at key.
func (g *Generator) Unload(key ChunkKey) bool {
	ch, ok := g.loaded.Get(key)
	if !ok {
		return false
	}
	for _, e := range ch.Ground {
		g.pool.Release(e)
	}
	for _, e := range ch.Trees {
		g.scene.Destroy(e)
	}
	ch.Ground = nil
	ch.Trees = nil
	g.loaded.remove(key)
	return true
}
