package gen

import (
	"sort"

	"streamworld.dev/internal/sim/world/logic/mathx"
	"streamworld.dev/internal/sim/world/render"
)

type ChunkKey struct {
	CX int `json:"cx"`
	CZ int `json:"cz"`
}

// KeyAt returns the chunk containing the continuous ground position (x,z).
func KeyAt(x, z float64, size int) ChunkKey {
	return ChunkKey{CX: mathx.FloorCell(x, size), CZ: mathx.FloorCell(z, size)}
}

func (k ChunkKey) Less(o ChunkKey) bool {
	if k.CX != o.CX {
		return k.CX < o.CX
	}
	return k.CZ < o.CZ
}

// Chunk is one loaded square of terrain. Ground handles came from the pool
// and go back to it on unload; tree primitives are owned outright.
type Chunk struct {
	Key    ChunkKey
	Ground []*render.Entity
	Trees  []*render.Entity
}

// LoadedSet maps chunk keys to their loaded chunk. A key is present iff the chunk is loaded.
type LoadedSet struct {
	chunks map[ChunkKey]*Chunk
}

func NewLoadedSet() *LoadedSet {
	return &LoadedSet{chunks: map[ChunkKey]*Chunk{}}
}

func (s *LoadedSet) Get(k ChunkKey) (*Chunk, bool) {
	ch, ok := s.chunks[k]
	return ch, ok
}

func (s *LoadedSet) Has(k ChunkKey) bool {
	_, ok := s.chunks[k]
	return ok
}

func (s *LoadedSet) Len() int { return len(s.chunks) }

// Keys returns the loaded keys in (CX, CZ) order.
func (s *LoadedSet) Keys() []ChunkKey {
	out := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Handles counts ground handles and tree primitives across all loaded chunks.
func (s *LoadedSet) Handles() (ground, trees int) {
	for _, ch := range s.chunks {
		ground += len(ch.Ground)
		trees += len(ch.Trees)
	}
	return ground, trees
}

func (s *LoadedSet) put(ch *Chunk)     { s.chunks[ch.Key] = ch }
func (s *LoadedSet) remove(k ChunkKey) { delete(s.chunks, k) }
