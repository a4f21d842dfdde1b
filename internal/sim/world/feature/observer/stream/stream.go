package stream

import (
	"github.com/go-gl/mathgl/mgl64"

	chunkspkg "streamworld.dev/internal/sim/world/feature/observer/chunks"
	"streamworld.dev/internal/sim/world/terrain/gen"
)

type ChunkKey = gen.ChunkKey

// Loader is the chunk lifecycle the streamer drives. *gen.Generator implements it.
type Loader interface {
	Generate(key ChunkKey) *gen.Chunk
	Unload(key ChunkKey) bool
	Loaded() *gen.LoadedSet
}

// Result lists the chunks touched by one Update.
type Result struct {
	Observer ChunkKey
	Loaded   []ChunkKey
	Unloaded []ChunkKey
}

// Streamer keeps the loaded set equal to the square window around the observer.
type Streamer struct {
	chunkSize int
	radius    int
	loader    Loader
}

func New(chunkSize, radius int, loader Loader) *Streamer {
	return &Streamer{chunkSize: chunkSize, radius: radius, loader: loader}
}

func (s *Streamer) Radius() int { return s.radius }

// Update runs one streaming step for the observer at pos: it loads every missing
// chunk of the window nearest-first, then unloads everything outside it.
// Only the ground plane (x, z) of pos is used.
func (s *Streamer) Update(pos mgl64.Vec3) Result {
	center := gen.KeyAt(pos.X(), pos.Z(), s.chunkSize)
	res := Result{Observer: center}

	for _, k := range chunkspkg.ComputeWantedChunks(center, s.radius) {
		if s.loader.Loaded().Has(k) {
			continue
		}
		s.loader.Generate(k)
		res.Loaded = append(res.Loaded, k)
	}

	for _, k := range s.loader.Loaded().Keys() {
		if chunkspkg.InRange(center, k, s.radius) {
			continue
		}
		if s.loader.Unload(k) {
			res.Unloaded = append(res.Unloaded, k)
		}
	}
	return res
}
