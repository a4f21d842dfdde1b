package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"streamworld.dev/internal/sim/tuning"
)

// Source is a coherent-noise function of two continuous coordinates.
// Implementations are pure per call and return values in a bounded range.
type Source interface {
	Eval2(x, y float64) float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(x, y float64) float64

func (f SourceFunc) Eval2(x, y float64) float64 { return f(x, y) }

// NewOpenSimplex returns the default backend, roughly in [-1,1].
func NewOpenSimplex(seed int64) Source {
	return opensimplex.New(seed)
}

// perlinOffset moves samples off the integer lattice, where gradient noise
// is zero for every octave when beta is a whole number.
const perlinOffset = 0.37

type perlinSource struct{ p *perlin.Perlin }

func (s perlinSource) Eval2(x, y float64) float64 {
	return s.p.Noise2D(x+perlinOffset, y+perlinOffset)
}

func NewPerlin(seed int64, alpha, beta float64, octaves int) Source {
	return perlinSource{p: perlin.NewPerlin(alpha, beta, int32(octaves), seed)}
}

// NewFromTuning picks the backend named in world_gen.noise_backend.
func NewFromTuning(seed int64, g tuning.WorldGen) (Source, error) {
	switch g.NoiseBackend {
	case "", tuning.BackendOpenSimplex:
		return NewOpenSimplex(seed), nil
	case tuning.BackendPerlin:
		return NewPerlin(seed, g.PerlinAlpha, g.PerlinBeta, g.PerlinOctaves), nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", g.NoiseBackend)
	}
}
