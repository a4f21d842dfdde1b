package world

import (
	"errors"
	"fmt"
)

// CheckConservation verifies that every ground handle ever allocated is either
// owned by exactly one loaded chunk (and enabled) or waiting in the pool.
func (w *World) CheckConservation() error {
	var errs []error
	seen := map[uint64]ChunkKey{}
	loaded := w.gen.Loaded()
	for _, k := range loaded.Keys() {
		ch, _ := loaded.Get(k)
		for _, e := range ch.Ground {
			if prev, dup := seen[e.ID()]; dup {
				errs = append(errs, fmt.Errorf("handle %d owned by %v and %v", e.ID(), prev, k))
			}
			seen[e.ID()] = k
			if !e.Alive() || !e.Enabled() {
				errs = append(errs, fmt.Errorf("handle %d in chunk %v is not active", e.ID(), k))
			}
		}
		for _, e := range ch.Trees {
			if !e.Alive() {
				errs = append(errs, fmt.Errorf("tree primitive %d in chunk %v was destroyed", e.ID(), k))
			}
		}
	}

	ground, trees := loaded.Handles()
	if ground+w.pool.Available() != w.pool.Created() {
		errs = append(errs, fmt.Errorf("pool: active %d + available %d != created %d",
			ground, w.pool.Available(), w.pool.Created()))
	}
	if live := w.scene.Live(); live != w.pool.Created()+trees {
		errs = append(errs, fmt.Errorf("scene: live %d != pooled handles %d + tree primitives %d",
			live, w.pool.Created(), trees))
	}
	if active := w.scene.Active(); active != ground+trees {
		errs = append(errs, fmt.Errorf("scene: enabled %d != ground %d + trees %d", active, ground, trees))
	}
	return errors.Join(errs...)
}
