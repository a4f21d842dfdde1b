package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"streamworld.dev/internal/persistence/indexdb"
	"streamworld.dev/internal/sim/world"
	"streamworld.dev/internal/transport/observer"
	"streamworld.dev/internal/transport/ws"
)

type muxOptions struct {
	EnableAdmin bool
	EnablePprof bool
}

func newMux(w *world.World, idx *indexdb.SQLiteIndex, opts muxOptions, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeWorldMetrics(rw, w)
		if idx != nil {
			writeIndexMetrics(rw, w.ID(), idx.Stats())
		}
	})

	if opts.EnableAdmin {
		// Local-only admin endpoints (do not affect simulation determinism).
		mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
			if !observer.IsLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			s, err := w.RequestState(ctx)
			rw.Header().Set("Content-Type", "application/json")
			if err != nil {
				rw.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(rw).Encode(map[string]any{"ok": false, "error": err.Error()})
				return
			}
			_ = json.NewEncoder(rw).Encode(s)
		})
		mux.HandleFunc("/admin/v1/ticks", func(rw http.ResponseWriter, r *http.Request) {
			if !observer.IsLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			if idx == nil {
				http.Error(rw, "index disabled", http.StatusNotFound)
				return
			}
			rows, err := idx.RecentTicks(r.Context(), 100)
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(rows)
		})

		obsSrv := observer.NewServer(w, logger)
		mux.HandleFunc("/admin/v1/observer/bootstrap", obsSrv.BootstrapHandler())
		mux.HandleFunc("/admin/v1/observer/ws", obsSrv.WSHandler())
	} else if logger != nil {
		logger.Printf("admin endpoints disabled (SW_ENABLE_ADMIN_HTTP=false)")
	}
	if opts.EnablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())
	return mux
}

// writeWorldMetrics renders the Prometheus text exposition format.
func writeWorldMetrics(rw http.ResponseWriter, w *world.World) {
	id := w.ID()
	m := w.Metrics()
	tick := w.CurrentTick()
	if m.Tick != 0 {
		tick = m.Tick
	}

	fmt.Fprintf(rw, "# HELP streamworld_tick Current world tick.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_tick gauge\n")
	fmt.Fprintf(rw, "streamworld_tick{world=%q} %d\n", id, tick)

	host := 0
	if m.HostAttached {
		host = 1
	}
	fmt.Fprintf(rw, "# HELP streamworld_host_attached Whether a rendering host is attached.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_host_attached gauge\n")
	fmt.Fprintf(rw, "streamworld_host_attached{world=%q} %d\n", id, host)

	fmt.Fprintf(rw, "# HELP streamworld_loaded_chunks Loaded chunk count.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_loaded_chunks gauge\n")
	fmt.Fprintf(rw, "streamworld_loaded_chunks{world=%q} %d\n", id, m.LoadedChunks)

	fmt.Fprintf(rw, "# HELP streamworld_handles Render handles by role.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_handles gauge\n")
	fmt.Fprintf(rw, "streamworld_handles{world=%q,role=%q} %d\n", id, "ground", m.GroundHandles)
	fmt.Fprintf(rw, "streamworld_handles{world=%q,role=%q} %d\n", id, "tree", m.TreePrimitives)
	fmt.Fprintf(rw, "streamworld_handles{world=%q,role=%q} %d\n", id, "pooled", m.PoolAvailable)

	fmt.Fprintf(rw, "# HELP streamworld_pool_created_total Ground handles the pool ever allocated.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_pool_created_total counter\n")
	fmt.Fprintf(rw, "streamworld_pool_created_total{world=%q} %d\n", id, m.PoolCreated)

	fmt.Fprintf(rw, "# HELP streamworld_noise_cache_entries Memoized base heights.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_noise_cache_entries gauge\n")
	fmt.Fprintf(rw, "streamworld_noise_cache_entries{world=%q} %d\n", id, m.CacheEntries)

	fmt.Fprintf(rw, "# HELP streamworld_dropped_batches_total RENDER batches dropped for a slow host.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_dropped_batches_total counter\n")
	fmt.Fprintf(rw, "streamworld_dropped_batches_total{world=%q} %d\n", id, m.DroppedBatches)

	fmt.Fprintf(rw, "# HELP streamworld_queue_depth Channel backlog depth.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_queue_depth gauge\n")
	fmt.Fprintf(rw, "streamworld_queue_depth{world=%q,queue=%q} %d\n", id, "pose", m.QueueDepths.Pose)
	fmt.Fprintf(rw, "streamworld_queue_depth{world=%q,queue=%q} %d\n", id, "attach", m.QueueDepths.Attach)
	fmt.Fprintf(rw, "streamworld_queue_depth{world=%q,queue=%q} %d\n", id, "detach", m.QueueDepths.Detach)

	fmt.Fprintf(rw, "# HELP streamworld_step_ms Last tick step duration in milliseconds.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_step_ms gauge\n")
	fmt.Fprintf(rw, "streamworld_step_ms{world=%q} %.3f\n", id, m.StepMS)
}

func writeIndexMetrics(rw http.ResponseWriter, id string, s indexdb.Stats) {
	fmt.Fprintf(rw, "# HELP streamworld_index_queue_depth Pending tick index writes.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_index_queue_depth gauge\n")
	fmt.Fprintf(rw, "streamworld_index_queue_depth{world=%q} %d\n", id, s.QueueDepth)

	fmt.Fprintf(rw, "# HELP streamworld_index_dropped_total Tick index writes dropped under load.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_index_dropped_total counter\n")
	fmt.Fprintf(rw, "streamworld_index_dropped_total{world=%q} %d\n", id, s.DropTickTotal)

	fmt.Fprintf(rw, "# HELP streamworld_index_written_total Tick rows committed to the index.\n")
	fmt.Fprintf(rw, "# TYPE streamworld_index_written_total counter\n")
	fmt.Fprintf(rw, "streamworld_index_written_total{world=%q} %d\n", id, s.WrittenTotal)
}
