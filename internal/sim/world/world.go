package world

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/world/feature/observer/stream"
	"streamworld.dev/internal/sim/world/render"
	"streamworld.dev/internal/sim/world/terrain/biome"
	"streamworld.dev/internal/sim/world/terrain/gen"
	"streamworld.dev/internal/sim/world/terrain/noise"
)

type ChunkKey = gen.ChunkKey

// AttachRequest binds a rendering host to the world. Out receives encoded
// RENDER messages; the world never blocks on it.
type AttachRequest struct {
	Name string
	Out  chan []byte
	Resp chan AttachResponse
}

type AttachResponse struct {
	SessionID string
	Welcome   protocol.WelcomeMsg

	// ErrCode is set when the attach was refused.
	ErrCode    string
	ErrMessage string
}

// World is a single-threaded streamed terrain simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg WorldConfig

	tick atomic.Uint64

	rng      *rand.Rand
	biomes   *biome.Map
	heights  *noise.Cache
	scene    *render.Scene
	pool     *render.Pool
	gen      *gen.Generator
	streamer *stream.Streamer

	pos  mgl64.Vec3
	last stream.Result

	host           *hostState
	nextSessionNum atomic.Uint64
	droppedBatches uint64

	pose     chan mgl64.Vec3
	attach   chan AttachRequest
	detach   chan string
	stateReq chan stateReq
	stop     chan struct{}

	// Optional logger (may be nil). Implemented in internal/persistence/*.
	tickLogger TickLogger

	metrics atomic.Value // WorldMetrics
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// TickLogEntry is the per-tick journal record. Pos is the only input the
// tick consumed; the rest is derived and lets replays and indexes check it.
type TickLogEntry struct {
	Tick     uint64     `json:"tick"`
	Pos      [3]float64 `json:"pos"`
	Observer [2]int     `json:"observer"`
	Loaded   int        `json:"loaded"`
	Unloaded int        `json:"unloaded"`

	LoadedTotal    int `json:"loaded_total"`
	PoolAvailable  int `json:"pool_available"`
	HandlesCreated int `json:"handles_created"`
	CacheEntries   int `json:"cache_entries"`

	Digest string `json:"digest"`
}

func New(cfg WorldConfig) (*World, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := cfg.Tuning.WorldGen

	heightSrc, err := noise.NewFromTuning(cfg.Seed, g)
	if err != nil {
		return nil, fmt.Errorf("height noise: %w", err)
	}
	detailSrc, err := noise.NewFromTuning(cfg.Seed+1, g)
	if err != nil {
		return nil, fmt.Errorf("detail noise: %w", err)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15))
	biomes := biome.Build(g.BiomeSeedCount, biome.Bounds{Min: g.BiomeBounds[0], Max: g.BiomeBounds[1]}, cfg.Seed, rng)
	heights := noise.NewCache(heightSrc, g.HeightScale, g.HeightAmplitude)
	scene := render.NewScene()
	pool := render.NewPool(scene)
	generator := gen.NewGenerator(gen.ConfigFromTuning(cfg.Tuning), gen.Deps{
		Biomes:  biomes,
		Heights: heights,
		Detail:  detailSrc,
		Scene:   scene,
		Pool:    pool,
		Rand:    rng,
	})

	w := &World{
		cfg:      cfg,
		rng:      rng,
		biomes:   biomes,
		heights:  heights,
		scene:    scene,
		pool:     pool,
		gen:      generator,
		streamer: stream.New(cfg.Tuning.ChunkSize, cfg.Tuning.RenderDistance, generator),
		pose:     make(chan mgl64.Vec3, 256),
		attach:   make(chan AttachRequest, 4),
		detach:   make(chan string, 4),
		stateReq: make(chan stateReq, 16),
		stop:     make(chan struct{}),
	}
	w.metrics.Store(WorldMetrics{})
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

func (w *World) Pose() chan<- mgl64.Vec3      { return w.pose }
func (w *World) Attach() chan<- AttachRequest { return w.attach }
func (w *World) Detach() chan<- string        { return w.detach }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Seed() int64 { return w.cfg.Seed }

func (w *World) TickRateHz() int {
	if w == nil {
		return 0
	}
	return w.cfg.Tuning.TickRateHz
}

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// WorldParams describes the world to an attaching host.
func (w *World) WorldParams() protocol.WorldParams {
	t := w.cfg.Tuning
	return protocol.WorldParams{
		WorldID:        w.cfg.ID,
		Seed:           w.cfg.Seed,
		TickRateHz:     t.TickRateHz,
		ChunkSize:      t.ChunkSize,
		RenderDistance: t.RenderDistance,
		NoiseBackend:   t.WorldGen.NoiseBackend,
	}
}

// ---- Debug/Test Helpers ----
//
// NOT safe to call concurrently with Run(). Use them from tests that drive
// the world via StepOnce() from a single goroutine.

func (w *World) DebugLoaded() *gen.LoadedSet { return w.gen.Loaded() }
func (w *World) DebugPool() *render.Pool     { return w.pool }
func (w *World) DebugScene() *render.Scene   { return w.scene }
