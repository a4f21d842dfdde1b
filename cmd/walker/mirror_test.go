package main

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/world/render"
)

func TestMirror_TracksSceneThroughDeltasAndSnapshot(t *testing.T) {
	s := render.NewScene()
	p := render.NewPool(s)
	m := newMirror()

	a := p.Acquire()
	a.Configure(render.Spec{Model: render.ModelCube, Position: mgl64.Vec3{1, 0, 1}, Scale: mgl64.Vec3{1, 1, 1}})
	b := p.Acquire()
	tree := s.Create(render.Spec{Model: render.ModelSphere})
	if err := m.Apply(protocol.RenderMsg{Tick: 0, Instructions: s.Flush()}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	p.Release(b)
	s.Destroy(tree)
	if err := m.Apply(protocol.RenderMsg{Tick: 1, Instructions: s.Flush()}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m.Live() != s.Live() || m.Enabled() != s.Active() {
		t.Fatalf("mirror live=%d enabled=%d scene live=%d active=%d", m.Live(), m.Enabled(), s.Live(), s.Active())
	}

	full := newMirror()
	if err := full.Apply(protocol.RenderMsg{Tick: 2, Full: true, Instructions: s.Snapshot()}); err != nil {
		t.Fatalf("apply full: %v", err)
	}
	if full.Live() != m.Live() || full.Enabled() != m.Enabled() {
		t.Fatalf("snapshot mirror live=%d enabled=%d", full.Live(), full.Enabled())
	}
}

func TestMirror_RejectsUnknownHandles(t *testing.T) {
	m := newMirror()
	for _, op := range []render.Op{render.OpUpdate, render.OpEnable, render.OpDisable, render.OpDestroy} {
		err := m.Apply(protocol.RenderMsg{Instructions: []render.Instruction{{Op: op, ID: 42}}})
		if err == nil {
			t.Fatalf("%s of unknown handle accepted", op)
		}
	}
	if err := m.Apply(protocol.RenderMsg{Instructions: []render.Instruction{{Op: "SPIN", ID: 1}}}); err == nil {
		t.Fatalf("unknown op accepted")
	}
}

func TestWalkPath(t *testing.T) {
	line := walkPath{Speed: 4}
	if got := line.At(2 * time.Second); got != [3]float64{8, 0, 0} {
		t.Fatalf("line=%v", got)
	}
	circle := walkPath{Speed: 1, Radius: 10}
	if got := circle.At(0); got != [3]float64{10, 0, 0} {
		t.Fatalf("circle start=%v", got)
	}
}
