package world

import (
	"encoding/json"
	"fmt"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/world/render"
)

// hostState is the one rendering host currently mirroring the scene.
type hostState struct {
	sessionID string
	name      string
	out       chan []byte

	// needsFull is set when a batch could not be delivered; the host is then
	// out of sync and the next send must be a full snapshot.
	needsFull bool
}

func (w *World) handleAttach(req AttachRequest) {
	if req.Resp == nil {
		return
	}
	if req.Out == nil {
		req.Resp <- AttachResponse{ErrCode: protocol.ErrBadRequest, ErrMessage: "missing output channel"}
		return
	}
	if w.host != nil {
		req.Resp <- AttachResponse{
			ErrCode:    protocol.ErrWorldBusy,
			ErrMessage: fmt.Sprintf("host %q is already attached", w.host.name),
		}
		return
	}

	id := fmt.Sprintf("H%d", w.nextSessionNum.Add(1))
	w.host = &hostState{sessionID: id, name: req.Name, out: req.Out}

	// The snapshot already reflects every queued mutation; drop them so the
	// host does not apply them twice.
	w.scene.Flush()
	w.sendFull(w.host, w.tick.Load())

	req.Resp <- AttachResponse{
		SessionID: id,
		Welcome: protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       id,
			WorldParams:     w.WorldParams(),
		},
	}
}

func (w *World) handleDetach(sessionID string) {
	if w.host == nil || w.host.sessionID != sessionID {
		return
	}
	w.host = nil
}

// publishRender hands this tick's instructions to the host. Without a host
// the batch is discarded; a later attach starts from a snapshot anyway.
func (w *World) publishRender(nowTick uint64) {
	batch := w.scene.Flush()
	h := w.host
	if h == nil {
		return
	}
	if h.needsFull {
		w.sendFull(h, nowTick)
		return
	}
	if len(batch) == 0 {
		return
	}
	w.sendBatch(h, nowTick, false, batch)
}

func (w *World) sendFull(h *hostState, nowTick uint64) {
	h.needsFull = false
	w.sendBatch(h, nowTick, true, w.scene.Snapshot())
}

func (w *World) sendBatch(h *hostState, nowTick uint64, full bool, batch []render.Instruction) {
	if batch == nil {
		batch = []render.Instruction{}
	}
	b, err := json.Marshal(protocol.RenderMsg{
		Type:            protocol.TypeRender,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		Full:            full,
		Instructions:    batch,
	})
	if err != nil {
		h.needsFull = true
		return
	}
	if !trySend(h.out, b) {
		w.droppedBatches++
		h.needsFull = true
	}
}

func trySend(ch chan []byte, b []byte) bool {
	select {
	case ch <- b:
		return true
	default:
		return false
	}
}
