package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"streamworld.dev/internal/protocol"
)

func main() {
	var (
		url    = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name   = flag.String("name", "walker", "host name")
		speed  = flag.Float64("speed", 4, "walk speed in world units per second")
		radius = flag.Float64("radius", 0, "walk a circle of this radius (0 walks a straight line along +x)")
		every  = flag.Duration("every", 100*time.Millisecond, "pose interval")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[walker] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		HostName:        *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	// Reader goroutine; the gorilla conn allows one concurrent reader and one writer.
	scene := newMirror()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Printf("read: %v", err)
				return
			}
			handleMessage(logger, scene, msg)
		}
	}()

	path := walkPath{Speed: *speed, Radius: *radius}
	start := time.Now()
	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
			return
		case <-done:
			return
		case <-ticker.C:
			pose := protocol.PoseMsg{
				Type:            protocol.TypePose,
				ProtocolVersion: protocol.Version,
				Pos:             path.At(time.Since(start)),
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(pose); err != nil {
				logger.Printf("send POSE: %v", err)
				return
			}
		}
	}
}

func handleMessage(logger *log.Logger, m *mirror, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return
	}
	switch base.Type {
	case protocol.TypeWelcome:
		var w protocol.WelcomeMsg
		if err := json.Unmarshal(msg, &w); err != nil {
			return
		}
		logger.Printf("WELCOME session=%s world=%s seed=%d chunk_size=%d render_distance=%d",
			w.SessionID, w.WorldParams.WorldID, w.WorldParams.Seed, w.WorldParams.ChunkSize, w.WorldParams.RenderDistance)

	case protocol.TypeRender:
		var r protocol.RenderMsg
		if err := json.Unmarshal(msg, &r); err != nil {
			return
		}
		if err := m.Apply(r); err != nil {
			logger.Printf("RENDER tick=%d: %v", r.Tick, err)
			return
		}
		if r.Full || r.Tick%50 == 0 {
			logger.Printf("RENDER tick=%d full=%v instructions=%d live=%d enabled=%d",
				r.Tick, r.Full, len(r.Instructions), m.Live(), m.Enabled())
		}

	case protocol.TypeError:
		var e protocol.ErrorMsg
		if err := json.Unmarshal(msg, &e); err != nil {
			return
		}
		logger.Printf("ERROR code=%s message=%s", e.Code, e.Message)
	}
}

// walkPath is a deterministic observer trajectory.
type walkPath struct {
	Speed  float64
	Radius float64
}

func (p walkPath) At(elapsed time.Duration) [3]float64 {
	d := p.Speed * elapsed.Seconds()
	if p.Radius <= 0 {
		return [3]float64{d, 0, 0}
	}
	a := d / p.Radius
	return [3]float64{p.Radius * math.Cos(a), 0, p.Radius * math.Sin(a)}
}
