package noise

import (
	"math"
	"testing"

	"streamworld.dev/internal/sim/tuning"
)

type countingSource struct {
	calls map[[2]float64]int
	total int
}

func (s *countingSource) Eval2(x, y float64) float64 {
	if s.calls == nil {
		s.calls = map[[2]float64]int{}
	}
	s.calls[[2]float64{x, y}]++
	s.total++
	return math.Sin(x*1.7) * math.Cos(y*0.3)
}

func TestCacheHeight_IdempotentAndSingleEvaluation(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 20, 4)

	coords := []Coord{{0, 0}, {1, 0}, {-7, 13}, {300, -41}, {1, 0}, {0, 0}}
	first := map[Coord]float64{}
	for _, at := range coords {
		h := c.Height(at)
		if prev, ok := first[at]; ok {
			if math.Float64bits(prev) != math.Float64bits(h) {
				t.Fatalf("Height(%v) changed: %v then %v", at, prev, h)
			}
			continue
		}
		first[at] = h
	}
	for i := 0; i < 3; i++ {
		for at, want := range first {
			if got := c.Height(at); math.Float64bits(got) != math.Float64bits(want) {
				t.Fatalf("Height(%v)=%v want %v", at, got, want)
			}
		}
	}

	if src.total != len(first) {
		t.Fatalf("noise evaluated %d times, want %d (once per distinct coord)", src.total, len(first))
	}
	if c.Len() != len(first) {
		t.Fatalf("Len()=%d want %d", c.Len(), len(first))
	}
}

func TestCacheHeight_ScaleAndAmplitude(t *testing.T) {
	var gotX, gotY float64
	src := SourceFunc(func(x, y float64) float64 {
		gotX, gotY = x, y
		return 0.5
	})
	c := NewCache(src, 20, 4)
	if h := c.Height(Coord{X: 40, Z: -10}); h != 2 {
		t.Fatalf("height=%v want 2", h)
	}
	if gotX != 2 || gotY != -0.5 {
		t.Fatalf("sampled at (%v,%v) want (2,-0.5)", gotX, gotY)
	}
}

func TestBackendsBoundedAndDeterministic(t *testing.T) {
	g := tuning.Defaults().WorldGen
	for _, backend := range []string{tuning.BackendOpenSimplex, tuning.BackendPerlin} {
		g.NoiseBackend = backend
		a, err := NewFromTuning(42, g)
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		b, _ := NewFromTuning(42, g)
		for i := 0; i < 200; i++ {
			x := float64(i)*0.37 - 20
			y := float64(i)*-0.11 + 3
			va, vb := a.Eval2(x, y), b.Eval2(x, y)
			if va != vb {
				t.Fatalf("%s: not deterministic at (%v,%v): %v vs %v", backend, x, y, va, vb)
			}
			if math.IsNaN(va) || va < -2 || va > 2 {
				t.Fatalf("%s: out of range at (%v,%v): %v", backend, x, y, va)
			}
		}
	}

	g.NoiseBackend = "value"
	if _, err := NewFromTuning(1, g); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestSources_NonZeroAtIntegerCoordinates(t *testing.T) {
	sources := map[string]Source{
		"opensimplex": NewOpenSimplex(7),
		"perlin":      NewPerlin(7, 2, 2, 3),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			zeros, total := 0, 0
			for i := -4; i <= 4; i++ {
				for j := -4; j <= 4; j++ {
					total++
					if src.Eval2(float64(i*3), float64(j*3)) == 0 {
						zeros++
					}
				}
			}
			if zeros > total/10 {
				t.Fatalf("%d of %d integer samples are exactly zero", zeros, total)
			}
		})
	}
}
