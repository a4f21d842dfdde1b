package render

import "sort"

type Op string

const (
	OpCreate  Op = "CREATE"
	OpUpdate  Op = "UPDATE"
	OpEnable  Op = "ENABLE"
	OpDisable Op = "DISABLE"
	OpDestroy Op = "DESTROY"
)

// Instruction is one render-host mutation. Spec fields are set for CREATE and UPDATE only.
type Instruction struct {
	Op       Op          `json:"op"`
	ID       uint64      `json:"id"`
	Model    Model       `json:"model,omitempty"`
	Pos      *[3]float64 `json:"pos,omitempty"`
	Scale    *[3]float64 `json:"scale,omitempty"`
	Color    *[4]float32 `json:"color,omitempty"`
	Collider Collider    `json:"collider,omitempty"`
	Enabled  bool        `json:"enabled,omitempty"`
}

func (in Instruction) withSpec(s Spec) Instruction {
	pos := [3]float64(s.Position)
	scale := [3]float64(s.Scale)
	col := [4]float32(s.Color)
	in.Model = s.Model
	in.Pos = &pos
	in.Scale = &scale
	in.Color = &col
	in.Collider = s.Collider
	return in
}

// Scene is the engine-side mirror of the rendering host. Every mutation is
// queued as an Instruction until Flush hands the batch to the host.
//
// Accessed only from the world loop goroutine.
type Scene struct {
	nextID   uint64
	entities map[uint64]*Entity
	active   int
	pending  []Instruction
}

func NewScene() *Scene {
	return &Scene{entities: map[uint64]*Entity{}}
}

// Create allocates a new, enabled primitive.
func (s *Scene) Create(spec Spec) *Entity {
	s.nextID++
	e := &Entity{
		id:      s.nextID,
		spec:    spec,
		enabled: true,
		alive:   true,
		scene:   s,
	}
	s.entities[e.id] = e
	s.active++
	in := Instruction{Op: OpCreate, ID: e.id, Enabled: true}.withSpec(spec)
	s.emit(in)
	return e
}

// Enable shows the entity and restores its collider. No-op if already enabled or destroyed.
func (s *Scene) Enable(e *Entity) {
	if e == nil || !e.alive || e.enabled {
		return
	}
	e.enabled = true
	s.active++
	s.emit(Instruction{Op: OpEnable, ID: e.id})
}

// Disable removes the entity from the render/collision scene but keeps it alive.
func (s *Scene) Disable(e *Entity) {
	if e == nil || !e.alive || !e.enabled {
		return
	}
	e.enabled = false
	s.active--
	s.emit(Instruction{Op: OpDisable, ID: e.id})
}

// Destroy removes the entity for good. Destroying twice is a no-op.
func (s *Scene) Destroy(e *Entity) {
	if e == nil || !e.alive {
		return
	}
	if e.enabled {
		s.active--
	}
	e.alive = false
	e.enabled = false
	delete(s.entities, e.id)
	s.emit(Instruction{Op: OpDestroy, ID: e.id})
}

func (s *Scene) emit(in Instruction) {
	s.pending = append(s.pending, in)
}

// Flush returns the instructions queued since the previous Flush.
func (s *Scene) Flush() []Instruction {
	if len(s.pending) == 0 {
		return nil
	}
	out := s.pending
	s.pending = nil
	return out
}

// Pending reports the size of the unflushed batch.
func (s *Scene) Pending() int { return len(s.pending) }

// Snapshot describes every live entity as a CREATE instruction, ordered by ID.
// A host attaching mid-stream applies it to a blank scene.
func (s *Scene) Snapshot() []Instruction {
	ids := make([]uint64, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Instruction, 0, len(ids))
	for _, id := range ids {
		e := s.entities[id]
		out = append(out, Instruction{Op: OpCreate, ID: id, Enabled: e.enabled}.withSpec(e.spec))
	}
	return out
}

// Live counts entities that exist (enabled or not).
func (s *Scene) Live() int { return len(s.entities) }

// Active counts enabled entities.
func (s *Scene) Active() int { return s.active }

func (s *Scene) Lookup(id uint64) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}
