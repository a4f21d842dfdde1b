// Package digestcodec writes fixed-width little-endian values into a hash so
// that state digests are byte-stable across platforms.
package digestcodec

import (
	"encoding/binary"
	"hash"
	"math"
)

type Writer struct {
	h   hash.Hash
	tmp [8]byte
}

func NewWriter(h hash.Hash) *Writer { return &Writer{h: h} }

func (w *Writer) U64(v uint64) {
	binary.LittleEndian.PutUint64(w.tmp[:], v)
	w.h.Write(w.tmp[:])
}

func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) Int(v int) { w.U64(uint64(int64(v))) }

// F64 writes the raw IEEE-754 bits; -0 and +0 hash differently.
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

func (w *Writer) Bool(v bool) {
	if v {
		w.h.Write([]byte{1})
		return
	}
	w.h.Write([]byte{0})
}

func (w *Writer) Sum() []byte { return w.h.Sum(nil) }
