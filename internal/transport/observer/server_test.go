package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/tuning"
	"streamworld.dev/internal/sim/world"
)

func newWorld(t *testing.T) *world.World {
	t.Helper()
	tu := tuning.Defaults()
	tu.ChunkSize = 4
	tu.RenderDistance = 1
	tu.TickRateHz = 50
	w, err := world.New(world.WorldConfig{ID: "obs", Seed: 5, Tuning: tu})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func TestIsLoopbackRemote(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1:1234": true,
		"[::1]:80":       true,
		"10.0.0.2:80":    false,
		"not-an-ip":      false,
	}
	for in, want := range cases {
		if got := IsLoopbackRemote(in); got != want {
			t.Fatalf("IsLoopbackRemote(%q)=%v want %v", in, got, want)
		}
	}
}

func TestBootstrapHandler(t *testing.T) {
	w := newWorld(t)
	w.StepOnce(mgl64.Vec3{})
	s := NewServer(w, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/observe/bootstrap", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	s.BootstrapHandler()(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var resp protocol.BootstrapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Tick != 1 || resp.WorldParams.WorldID != "obs" {
		t.Fatalf("resp=%+v", resp)
	}

	req.RemoteAddr = "192.168.1.9:5555"
	rec = httptest.NewRecorder()
	s.BootstrapHandler()(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-loopback status=%d", rec.Code)
	}
}

func TestWSHandler_StreamsStats(t *testing.T) {
	w := newWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	srv := httptest.NewServer(NewServer(w, nil).WSHandler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteJSON(protocol.SubscribeMsg{Type: protocol.TypeSubscribe, ProtocolVersion: protocol.Version, IntervalMS: 50}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg struct {
		Type    string             `json:"type"`
		Tick    uint64             `json:"tick"`
		Metrics world.WorldMetrics `json:"metrics"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != protocol.TypeStats || msg.Tick == 0 || msg.Metrics.LoadedChunks != 9 {
		t.Fatalf("stats=%+v", msg)
	}
}
