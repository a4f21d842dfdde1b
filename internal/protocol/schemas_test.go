package protocol_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"streamworld.dev/internal/protocol"
	"streamworld.dev/internal/sim/world/render"
)

func TestValidate_IncomingSamples(t *testing.T) {
	ok := []string{
		`{"type":"HELLO","protocol_version":"1.0","host_name":"viewer-1"}`,
		`{"type":"POSE","protocol_version":"1.0","pos":[12.5,3,-40]}`,
	}
	for _, raw := range ok {
		if _, err := protocol.Validate([]byte(raw)); err != nil {
			t.Fatalf("validate %s: %v", raw, err)
		}
	}

	bad := []string{
		`{"type":"HELLO","protocol_version":"1.0"}`,
		`{"type":"HELLO","protocol_version":"1.0","host_name":""}`,
		`{"type":"POSE","protocol_version":"1.0","pos":[1,2]}`,
		`{"type":"POSE","protocol_version":"1.0","pos":[1,2,"x"]}`,
		`{"type":"POSE","protocol_version":"1.0","pos":[1,2,3],"yaw":9}`,
		`{"type":"JUMP","protocol_version":"1.0"}`,
		`not json`,
	}
	for _, raw := range bad {
		if _, err := protocol.Validate([]byte(raw)); err == nil {
			t.Fatalf("expected %s to be rejected", raw)
		}
	}
}

func TestValidate_OutgoingMessages(t *testing.T) {
	scene := render.NewScene()
	e := scene.Create(render.Spec{
		Model:    render.ModelCube,
		Position: mgl64.Vec3{1, 2.5, -3},
		Scale:    mgl64.Vec3{1, 1, 1},
		Color:    mgl32.Vec4{0, 1, 0, 1},
		Collider: render.ColliderBox,
	})
	scene.Disable(e)
	scene.Destroy(e)

	msgs := []any{
		protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       "H1",
			WorldParams: protocol.WorldParams{
				WorldID:        "main",
				Seed:           1337,
				TickRateHz:     20,
				ChunkSize:      16,
				RenderDistance: 4,
				NoiseBackend:   "opensimplex",
			},
		},
		protocol.RenderMsg{
			Type:            protocol.TypeRender,
			ProtocolVersion: protocol.Version,
			Tick:            3,
			Instructions:    scene.Flush(),
		},
		protocol.RenderMsg{
			Type:            protocol.TypeRender,
			ProtocolVersion: protocol.Version,
			Full:            true,
			Instructions:    []render.Instruction{},
		},
		protocol.NewError(protocol.ErrWorldBusy, "another host is attached"),
	}
	for _, m := range msgs {
		if err := protocol.ValidateValue(m); err != nil {
			t.Fatalf("validate %T: %v", m, err)
		}
	}
}
