package main

import (
	"fmt"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/world/render"
)

// mirror replays RENDER batches into a host-side copy of the scene, the way a
// real engine would, and rejects batches that reference unknown handles.
type mirror struct {
	entities map[uint64]*mirrored
}

type mirrored struct {
	inst    render.Instruction
	enabled bool
}

func newMirror() *mirror { return &mirror{entities: map[uint64]*mirrored{}} }

func (m *mirror) Apply(r protocol.RenderMsg) error {
	if r.Full {
		m.entities = map[uint64]*mirrored{}
	}
	for _, in := range r.Instructions {
		switch in.Op {
		case render.OpCreate:
			if _, ok := m.entities[in.ID]; ok && !r.Full {
				return fmt.Errorf("CREATE of existing handle %d", in.ID)
			}
			m.entities[in.ID] = &mirrored{inst: in, enabled: in.Enabled}
		case render.OpUpdate:
			e, ok := m.entities[in.ID]
			if !ok {
				return fmt.Errorf("UPDATE of unknown handle %d", in.ID)
			}
			e.inst = in
		case render.OpEnable, render.OpDisable:
			e, ok := m.entities[in.ID]
			if !ok {
				return fmt.Errorf("%s of unknown handle %d", in.Op, in.ID)
			}
			e.enabled = in.Op == render.OpEnable
		case render.OpDestroy:
			if _, ok := m.entities[in.ID]; !ok {
				return fmt.Errorf("DESTROY of unknown handle %d", in.ID)
			}
			delete(m.entities, in.ID)
		default:
			return fmt.Errorf("unknown op %q", in.Op)
		}
	}
	return nil
}

func (m *mirror) Live() int { return len(m.entities) }

func (m *mirror) Enabled() int {
	n := 0
	for _, e := range m.entities {
		if e.enabled {
			n++
		}
	}
	return n
}
