package world

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// StateSummary is the loopback admin view of the world.
type StateSummary struct {
	WorldID  string       `json:"world_id"`
	Tick     uint64       `json:"tick"`
	Seed     int64        `json:"seed"`
	Pos      mgl64.Vec3   `json:"pos"`
	Observer ChunkKey     `json:"observer"`
	Loaded   []ChunkKey   `json:"loaded"`
	Host     string       `json:"host,omitempty"`
	Metrics  WorldMetrics `json:"metrics"`

	// Conservation is empty when the pool invariant holds.
	Conservation string `json:"conservation,omitempty"`
}

type stateReq struct {
	Resp chan StateSummary
}

var ErrWorldStopped = errors.New("world stopped")

// RequestState asks the world loop for a consistent summary, answered right after the next tick.
func (w *World) RequestState(ctx context.Context) (StateSummary, error) {
	resp := make(chan StateSummary, 1)
	select {
	case w.stateReq <- stateReq{Resp: resp}:
	case <-w.stop:
		return StateSummary{}, ErrWorldStopped
	case <-ctx.Done():
		return StateSummary{}, ctx.Err()
	}
	select {
	case s := <-resp:
		return s, nil
	case <-w.stop:
		return StateSummary{}, ErrWorldStopped
	case <-ctx.Done():
		return StateSummary{}, ctx.Err()
	}
}

func (w *World) handleStateRequests(reqs []stateReq) {
	if len(reqs) == 0 {
		return
	}
	s := w.summary()
	for _, r := range reqs {
		if r.Resp != nil {
			r.Resp <- s
		}
	}
}

func (w *World) summary() StateSummary {
	s := StateSummary{
		WorldID:  w.cfg.ID,
		Tick:     w.tick.Load(),
		Seed:     w.cfg.Seed,
		Pos:      w.pos,
		Observer: w.last.Observer,
		Loaded:   w.gen.Loaded().Keys(),
		Metrics:  w.Metrics(),
	}
	if w.host != nil {
		s.Host = w.host.name
	}
	if err := w.CheckConservation(); err != nil {
		s.Conservation = err.Error()
	}
	return s
}
