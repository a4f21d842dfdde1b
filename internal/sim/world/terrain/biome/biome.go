package biome

import (
	"github.com/go-gl/mathgl/mgl32"

	"streamworld.dev/internal/sim/world/logic/mathx"
)

type ID uint8

const (
	Forest ID = iota
	Desert
	Mountain
	Water

	count = 4
)

// Default is returned for coarse cells outside the seeded region.
const Default = Forest

func (id ID) String() string {
	switch id {
	case Forest:
		return "FOREST"
	case Desert:
		return "DESERT"
	case Mountain:
		return "MOUNTAIN"
	case Water:
		return "WATER"
	default:
		return "UNKNOWN"
	}
}

// FromSeedIndex derives a biome from a seed point's index.
// The mapping is a splitmix hash of (worldSeed, index), reduced modulo the biome count,
// so a layout is reproducible from the world seed alone.
func FromSeedIndex(worldSeed int64, index int) ID {
	return ID(mathx.Hash2(worldSeed, index, 0) % count)
}

var (
	White  = mgl32.Vec4{1, 1, 1, 1}
	Green  = mgl32.Vec4{0, 1, 0, 1}
	Lime   = mgl32.Vec4{0.5, 1, 0, 1}
	Orange = mgl32.Vec4{1, 0.5, 0, 1}
	Yellow = mgl32.Vec4{1, 1, 0, 1}
	Gray   = mgl32.Vec4{0.5, 0.5, 0.5, 1}
	Blue   = mgl32.Vec4{0, 0, 1, 1}
	Cyan   = mgl32.Vec4{0, 1, 1, 1}
	Brown  = mgl32.Vec4{165.0 / 255, 42.0 / 255, 42.0 / 255, 1}
)

// Palette returns the low and high color endpoints of a biome.
func Palette(id ID) (lo, hi mgl32.Vec4, ok bool) {
	switch id {
	case Forest:
		return Green, Lime, true
	case Desert:
		return Orange, Yellow, true
	case Mountain:
		return Gray, White, true
	case Water:
		return Blue, Cyan, true
	default:
		return White, White, false
	}
}

// Color interpolates the biome palette by height/norm, clamped to [0,1].
func Color(id ID, height, norm float64) mgl32.Vec4 {
	lo, hi, ok := Palette(id)
	if !ok {
		return White
	}
	return LerpColor(lo, hi, height/norm)
}

func LerpColor(a, b mgl32.Vec4, t float64) mgl32.Vec4 {
	t = mathx.Clamp01(t)
	return a.Add(b.Sub(a).Mul(float32(t)))
}
