package world

import (
	"crypto/sha256"
	"encoding/hex"

	"streamworld.dev/internal/sim/world/io/digestcodec"
)

// stateDigest hashes everything a replay must reproduce: the loaded chunk
// set, the handle identities and heights inside each chunk, and the pool counters.
func (w *World) stateDigest(nowTick uint64) string {
	d := digestcodec.NewWriter(sha256.New())

	d.U64(nowTick)
	d.I64(w.cfg.Seed)

	loaded := w.gen.Loaded()
	for _, k := range loaded.Keys() {
		ch, _ := loaded.Get(k)
		d.Int(k.CX)
		d.Int(k.CZ)
		d.Int(len(ch.Ground))
		for _, e := range ch.Ground {
			d.U64(e.ID())
			d.F64(e.Spec().Position.Y())
			d.Bool(e.HasCollider())
		}
		d.Int(len(ch.Trees))
		for _, e := range ch.Trees {
			d.U64(e.ID())
		}
	}

	d.Int(w.pool.Available())
	d.Int(w.pool.Created())
	d.Int(w.heights.Len())

	return hex.EncodeToString(d.Sum())
}
