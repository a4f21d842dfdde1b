package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type Model string

const (
	ModelCube   Model = "cube"
	ModelSphere Model = "sphere"
)

type Collider string

const (
	ColliderNone Collider = ""
	ColliderBox  Collider = "box"
)

// Spec is the full mutable state of a renderable primitive.
type Spec struct {
	Model    Model
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Color    mgl32.Vec4
	Collider Collider
}

// Entity is an opaque handle to one primitive living in a Scene.
type Entity struct {
	id      uint64
	spec    Spec
	enabled bool
	alive   bool
	pooled  bool

	scene *Scene
}

func (e *Entity) ID() uint64        { return e.id }
func (e *Entity) Spec() Spec        { return e.spec }
func (e *Entity) Enabled() bool     { return e.enabled }
func (e *Entity) Alive() bool       { return e.alive }
func (e *Entity) HasCollider() bool { return e.spec.Collider != ColliderNone }

// Configure overwrites every mutable field; nothing from a previous use survives.
func (e *Entity) Configure(s Spec) {
	if !e.alive {
		return
	}
	e.spec = s
	e.scene.emit(Instruction{Op: OpUpdate, ID: e.id}.withSpec(s))
}
