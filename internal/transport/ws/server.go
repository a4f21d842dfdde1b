package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/world"
	"streamworld.dev/internal/sim/world/logic/rates"
)

// Server bridges one remote rendering host to the world over a websocket.
type Server struct {
	world *world.World
	log   *log.Logger

	// poseLimit caps POSE messages per second per host; 0 disables it.
	poseLimit int

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	s := &Server{
		world:     w,
		log:       logger,
		poseLimit: defaultPoseLimit,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 256 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

// outQueue is small on purpose: a host that falls behind gets a full
// snapshot instead of a growing backlog of deltas.
const outQueue = 16

const defaultPoseLimit = 240

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, out := s.handshake(conn)
		if sessionID == "" {
			return
		}
		s.logf("host attached session=%s remote=%s", sessionID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		var poses rates.Window
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.Validate(msg)
			if err != nil {
				queueError(out, protocol.ErrProtoBadRequest, err.Error())
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				queueError(out, protocol.ErrProtoVersion, "protocol_version must be "+protocol.Version)
				continue
			}
			switch base.Type {
			case protocol.TypePose:
				var pose protocol.PoseMsg
				if err := json.Unmarshal(msg, &pose); err != nil {
					continue
				}
				if ok, retry := poses.Allow(uint64(time.Now().UnixMilli()), 1000, s.poseLimit); !ok {
					queueError(out, protocol.ErrRateLimit, fmt.Sprintf("too many POSE messages; retry in %dms", retry))
					continue
				}
				select {
				case s.world.Pose() <- mgl64.Vec3(pose.Pos):
				case <-ctx.Done():
				}
			default:
				queueError(out, protocol.ErrBadRequest, "unexpected "+base.Type+" after handshake")
			}
		}

		// Cleanup.
		s.world.Detach() <- sessionID
		s.logf("host detached session=%s", sessionID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}
	if _, err := protocol.Validate(msg); err != nil {
		_ = writeJSON(conn, protocol.NewError(protocol.ErrProtoBadRequest, err.Error()))
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}

	out = make(chan []byte, outQueue)
	respCh := make(chan world.AttachResponse, 1)
	s.world.Attach() <- world.AttachRequest{Name: hello.HostName, Out: out, Resp: respCh}
	resp := <-respCh

	if resp.ErrCode != "" {
		_ = writeJSON(conn, protocol.NewError(resp.ErrCode, resp.ErrMessage))
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, resp.ErrCode), time.Now().Add(time.Second))
		return "", nil
	}

	// Welcome goes out before the writer starts, so it precedes the snapshot already queued on out.
	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.world.Detach() <- resp.SessionID
		return "", nil
	}
	return resp.SessionID, out
}

func queueError(out chan []byte, code, message string) {
	b, err := json.Marshal(protocol.NewError(code, message))
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}
