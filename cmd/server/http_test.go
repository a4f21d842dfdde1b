package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"streamworld.dev/internal/sim/tuning"
	"streamworld.dev/internal/sim/world"
)

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	tu := tuning.Defaults()
	tu.ChunkSize = 4
	tu.RenderDistance = 1
	tu.TickRateHz = 50
	w, err := world.New(world.WorldConfig{ID: "srv", Seed: 9, Tuning: tu})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func TestMetricsEndpoint(t *testing.T) {
	w := newTestWorld(t)
	w.StepOnce(mgl64.Vec3{})
	mux := newMux(w, nil, muxOptions{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`streamworld_tick{world="srv"} 1`,
		`streamworld_loaded_chunks{world="srv"} 9`,
		`streamworld_queue_depth{world="srv",queue="pose"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestAdminDisabled(t *testing.T) {
	mux := newMux(newTestWorld(t), nil, muxOptions{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/admin/v1/state", nil)
	req.RemoteAddr = "127.0.0.1:1000"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", rec.Code)
	}
}

func TestAdminState_LoopbackOnly(t *testing.T) {
	w := newTestWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	srv := httptest.NewServer(newMux(w, nil, muxOptions{EnableAdmin: true}, nil))
	defer srv.Close()

	c := &http.Client{Timeout: 5 * time.Second}
	resp, err := c.Get(srv.URL + "/admin/v1/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status=%d body=%s", resp.StatusCode, b)
	}
	var s world.StateSummary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.WorldID != "srv" || len(s.Loaded) != 9 || s.Conservation != "" {
		t.Fatalf("state=%+v", s)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/v1/state", nil)
	req.RemoteAddr = "203.0.113.7:1000"
	rec := httptest.NewRecorder()
	newMux(w, nil, muxOptions{EnableAdmin: true}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("remote status=%d want 403", rec.Code)
	}
}

func TestOpenRuntimeIndex(t *testing.T) {
	idx, err := openRuntimeIndex(t.TempDir(), true)
	if err != nil || idx != nil {
		t.Fatalf("disabled: idx=%v err=%v", idx, err)
	}
	t.Setenv("SW_INDEX_BACKEND", "bogus")
	if _, err := openRuntimeIndex(t.TempDir(), false); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	t.Setenv("SW_INDEX_BACKEND", "sqlite")
	idx, err = openRuntimeIndex(t.TempDir(), false)
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	_ = idx.Close()
}

func TestRunWorld_DoneMeansNoMoreTicks(t *testing.T) {
	w := newTestWorld(t)
	idx, err := openRuntimeIndex(t.TempDir(), false)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	w.SetTickLogger(multiTickLogger{a: idx})

	ctx, cancel := context.WithCancel(context.Background())
	done := runWorld(ctx, w, nil)
	deadline := time.Now().Add(5 * time.Second)
	for w.CurrentTick() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("world did not tick")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if err := idx.Close(); err != nil {
		t.Fatalf("close index: %v", err)
	}
	tick := w.CurrentTick()
	time.Sleep(60 * time.Millisecond)
	if w.CurrentTick() != tick {
		t.Fatalf("world ticked after runWorld finished")
	}
	if got := idx.Stats().WrittenTotal; got != tick {
		t.Fatalf("indexed=%d ticks=%d", got, tick)
	}
}
