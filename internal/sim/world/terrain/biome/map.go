package biome

import "math"

// Rand is the slice of math/rand/v2 the biome builder needs.
type Rand interface {
	Float64() float64
}

// CellCoord addresses one coarse cell (a square of biome_cell_size world cells).
type CellCoord struct {
	X int
	Z int
}

// Bounds is the half-open square [Min,Max) on both axes, in coarse cells.
type Bounds struct {
	Min int
	Max int
}

func (b Bounds) Contains(c CellCoord) bool {
	return c.X >= b.Min && c.X < b.Max && c.Z >= b.Min && c.Z < b.Max
}

func (b Bounds) side() int { return b.Max - b.Min }

type SeedPoint struct {
	X, Z  float64
	Biome ID
}

// Map is a precomputed nearest-seed partition of a bounded region.
// It is read-only after Build; Rebuild swaps the whole table at once.
type Map struct {
	bounds Bounds
	seeds  []SeedPoint
	cells  []ID // row-major over bounds, index (z-min)*side + (x-min)
}

// Build draws seedCount uniform points in bounds and assigns every coarse cell
// the biome of its nearest seed. Ties go to the earlier seed.
func Build(seedCount int, bounds Bounds, worldSeed int64, rng Rand) *Map {
	m := &Map{}
	m.Rebuild(seedCount, bounds, worldSeed, rng)
	return m
}

func (m *Map) Rebuild(seedCount int, bounds Bounds, worldSeed int64, rng Rand) {
	span := float64(bounds.side())
	seeds := make([]SeedPoint, seedCount)
	for i := range seeds {
		seeds[i] = SeedPoint{
			X:     float64(bounds.Min) + rng.Float64()*span,
			Z:     float64(bounds.Min) + rng.Float64()*span,
			Biome: FromSeedIndex(worldSeed, i),
		}
	}

	side := bounds.side()
	cells := make([]ID, side*side)
	for z := bounds.Min; z < bounds.Max; z++ {
		for x := bounds.Min; x < bounds.Max; x++ {
			cells[(z-bounds.Min)*side+(x-bounds.Min)] = nearest(seeds, float64(x), float64(z))
		}
	}

	m.bounds = bounds
	m.seeds = seeds
	m.cells = cells
}

func nearest(seeds []SeedPoint, x, z float64) ID {
	best := Default
	bestD := math.Inf(1)
	for _, s := range seeds {
		d := math.Hypot(x-s.X, z-s.Z)
		if d < bestD {
			bestD = d
			best = s.Biome
		}
	}
	return best
}

// Lookup returns the biome of a coarse cell, or Default outside the seeded region.
func (m *Map) Lookup(c CellCoord) ID {
	if m == nil || !m.bounds.Contains(c) {
		return Default
	}
	side := m.bounds.side()
	return m.cells[(c.Z-m.bounds.Min)*side+(c.X-m.bounds.Min)]
}

func (m *Map) Bounds() Bounds { return m.bounds }

// Seeds returns a copy of the seed points used for the current table.
func (m *Map) Seeds() []SeedPoint {
	out := make([]SeedPoint, len(m.seeds))
	copy(out, m.seeds)
	return out
}
