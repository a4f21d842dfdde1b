package tuning

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	TickRateHz     int `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	ChunkSize      int `yaml:"chunk_size" json:"chunk_size"`
	RenderDistance int `yaml:"render_distance" json:"render_distance"`

	WorldGen WorldGen `yaml:"world_gen" json:"world_gen"`
}

// WorldGen holds the terrain, biome and decoration constants.
type WorldGen struct {
	BiomeSeedCount int    `yaml:"biome_seed_count" json:"biome_seed_count"`
	BiomeCellSize  int    `yaml:"biome_cell_size" json:"biome_cell_size"`
	BiomeBounds    [2]int `yaml:"biome_bounds" json:"biome_bounds"` // [min,max) per axis, in coarse cells

	HeightScale     float64 `yaml:"height_scale" json:"height_scale"`
	HeightAmplitude float64 `yaml:"height_amplitude" json:"height_amplitude"`
	DetailFrequency float64 `yaml:"detail_frequency" json:"detail_frequency"`
	DetailWeight    float64 `yaml:"detail_weight" json:"detail_weight"`
	HeightNorm      float64 `yaml:"height_norm" json:"height_norm"`
	GroundThreshold float64 `yaml:"ground_threshold" json:"ground_threshold"`

	TreeProbability float64 `yaml:"tree_probability" json:"tree_probability"`
	TreeHeightMin   int     `yaml:"tree_height_min" json:"tree_height_min"`
	TreeHeightMax   int     `yaml:"tree_height_max" json:"tree_height_max"`

	NoiseBackend  string  `yaml:"noise_backend" json:"noise_backend"` // "opensimplex" | "perlin"
	PerlinAlpha   float64 `yaml:"perlin_alpha" json:"perlin_alpha"`
	PerlinBeta    float64 `yaml:"perlin_beta" json:"perlin_beta"`
	PerlinOctaves int     `yaml:"perlin_octaves" json:"perlin_octaves"`
}

const (
	BackendOpenSimplex = "opensimplex"
	BackendPerlin      = "perlin"
)

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      20,
		ChunkSize:       16,
		RenderDistance:  4,
		WorldGen: WorldGen{
			BiomeSeedCount:  8,
			BiomeCellSize:   4,
			BiomeBounds:     [2]int{-32, 32},
			HeightScale:     20,
			HeightAmplitude: 4,
			DetailFrequency: 3,
			DetailWeight:    0.5,
			HeightNorm:      5,
			GroundThreshold: 2,
			TreeProbability: 0.1,
			TreeHeightMin:   3,
			TreeHeightMax:   6,
			NoiseBackend:    BackendOpenSimplex,
			PerlinAlpha:     2,
			PerlinBeta:      2,
			PerlinOctaves:   3,
		},
	}
}

// Load reads a tuning file on top of Defaults, so a partial file only overrides what it names.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.WorldGen.NoiseBackend = strings.ToLower(strings.TrimSpace(t.WorldGen.NoiseBackend))
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.TickRateHz <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate_hz must be > 0 (got %d)", t.TickRateHz))
	}
	if t.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be > 0 (got %d)", t.ChunkSize))
	}
	if t.RenderDistance < 0 {
		errs = append(errs, fmt.Errorf("render_distance must be >= 0 (got %d)", t.RenderDistance))
	}
	g := t.WorldGen
	if g.BiomeSeedCount <= 0 {
		errs = append(errs, fmt.Errorf("world_gen.biome_seed_count must be > 0 (got %d)", g.BiomeSeedCount))
	}
	if g.BiomeCellSize <= 0 {
		errs = append(errs, fmt.Errorf("world_gen.biome_cell_size must be > 0 (got %d)", g.BiomeCellSize))
	}
	if g.BiomeBounds[0] >= g.BiomeBounds[1] {
		errs = append(errs, fmt.Errorf("world_gen.biome_bounds must be [min,max) with min < max (got %v)", g.BiomeBounds))
	}
	if g.HeightScale == 0 {
		errs = append(errs, errors.New("world_gen.height_scale must be non-zero"))
	}
	if g.HeightNorm == 0 {
		errs = append(errs, errors.New("world_gen.height_norm must be non-zero"))
	}
	if g.TreeProbability < 0 || g.TreeProbability > 1 {
		errs = append(errs, fmt.Errorf("world_gen.tree_probability must be in [0,1] (got %v)", g.TreeProbability))
	}
	if g.TreeHeightMin <= 0 || g.TreeHeightMax < g.TreeHeightMin {
		errs = append(errs, fmt.Errorf("world_gen.tree_height range invalid: [%d,%d]", g.TreeHeightMin, g.TreeHeightMax))
	}
	switch g.NoiseBackend {
	case BackendOpenSimplex:
	case BackendPerlin:
		if g.PerlinOctaves <= 0 {
			errs = append(errs, fmt.Errorf("world_gen.perlin_octaves must be > 0 (got %d)", g.PerlinOctaves))
		}
	default:
		errs = append(errs, fmt.Errorf("world_gen.noise_backend unknown: %q", g.NoiseBackend))
	}
	return errors.Join(errs...)
}
