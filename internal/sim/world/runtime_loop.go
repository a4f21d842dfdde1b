package world

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.Tuning.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingState []stateReq

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case p := <-w.pose:
			// Latest pose before the tick wins.
			w.pos = p
		case req := <-w.attach:
			w.handleAttach(req)
		case id := <-w.detach:
			w.handleDetach(id)
		case req := <-w.stateReq:
			pendingState = append(pendingState, req)
		case <-ticker.C:
			w.step(w.pos)
			w.handleStateRequests(pendingState)
			pendingState = pendingState[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by a single tick with the observer at pos, using
// the same ordering as the server loop. It is primarily intended for
// deterministic replays/tests.
func (w *World) StepOnce(pos mgl64.Vec3) (tick uint64, digest string) {
	tick = w.tick.Load()
	digest = w.step(pos)
	return tick, digest
}

func (w *World) step(pos mgl64.Vec3) string {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	w.pos = pos
	res := w.streamer.Update(pos)
	w.last = res

	w.publishRender(nowTick)

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(w.tickLogEntry(nowTick, digest))
	}

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	nextTick := w.tick.Add(1)

	ground, trees := w.gen.Loaded().Handles()
	w.metrics.Store(WorldMetrics{
		Tick:           nextTick,
		HostAttached:   w.host != nil,
		Observer:       [2]int{res.Observer.CX, res.Observer.CZ},
		LoadedChunks:   w.gen.Loaded().Len(),
		GroundHandles:  ground,
		TreePrimitives: trees,
		PoolAvailable:  w.pool.Available(),
		PoolCreated:    w.pool.Created(),
		SceneLive:      w.scene.Live(),
		CacheEntries:   w.heights.Len(),
		LastLoaded:     len(res.Loaded),
		LastUnloaded:   len(res.Unloaded),
		DroppedBatches: w.droppedBatches,
		QueueDepths: QueueDepths{
			Pose:   len(w.pose),
			Attach: len(w.attach),
			Detach: len(w.detach),
		},
		StepMS: stepMS,
	})
	return digest
}

func (w *World) tickLogEntry(nowTick uint64, digest string) TickLogEntry {
	return TickLogEntry{
		Tick:           nowTick,
		Pos:            [3]float64(w.pos),
		Observer:       [2]int{w.last.Observer.CX, w.last.Observer.CZ},
		Loaded:         len(w.last.Loaded),
		Unloaded:       len(w.last.Unloaded),
		LoadedTotal:    w.gen.Loaded().Len(),
		PoolAvailable:  w.pool.Available(),
		HandlesCreated: w.pool.Created(),
		CacheEntries:   w.heights.Len(),
		Digest:         digest,
	}
}
