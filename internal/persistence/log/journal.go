package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"streamworld.dev/internal/sim/world"
)

const journalPrefix = "events"

// Journal is the tick journal: one JSON line per tick, zstd-compressed, one
// segment file per UTC hour under <worldDir>/events. Every entry is flushed
// as its own zstd block, so a running server's current segment can already
// be replayed.
type Journal struct {
	dir string
	now func() time.Time

	mu      sync.Mutex
	seg     *segment
	entries uint64
	lastErr error
}

// segment is one open hourly file.
type segment struct {
	hour string
	f    *os.File
	zw   *zstd.Encoder
	je   *json.Encoder
}

type JournalStats struct {
	Entries   uint64 `json:"entries"`
	Segment   string `json:"segment,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func NewJournal(worldDir string) *Journal {
	return &Journal{dir: filepath.Join(worldDir, "events"), now: time.Now}
}

func segmentName(hour string) string {
	return fmt.Sprintf("%s-%s.jsonl.zst", journalPrefix, hour)
}

func openSegment(dir, hour string) (*segment, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, segmentName(hour)), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{hour: hour, f: f, zw: zw, je: json.NewEncoder(zw)}, nil
}

func (s *segment) append(e world.TickLogEntry) error {
	if err := s.je.Encode(e); err != nil {
		return err
	}
	return s.zw.Flush()
}

func (s *segment) close() error {
	return errors.Join(s.zw.Close(), s.f.Close())
}

// WriteTick implements world.TickLogger.
func (j *Journal) WriteTick(e world.TickLogEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	hour := j.now().UTC().Format("2006-01-02-15")
	if j.seg == nil || j.seg.hour != hour {
		if err := j.closeLocked(); err != nil {
			j.lastErr = err
		}
		seg, err := openSegment(j.dir, hour)
		if err != nil {
			j.lastErr = err
			return err
		}
		j.seg = seg
	}
	if err := j.seg.append(e); err != nil {
		j.lastErr = err
		return err
	}
	j.entries++
	return nil
}

func (j *Journal) Stats() JournalStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := JournalStats{Entries: j.entries}
	if j.seg != nil {
		s.Segment = segmentName(j.seg.hour)
	}
	if j.lastErr != nil {
		s.LastError = j.lastErr.Error()
	}
	return s
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal) closeLocked() error {
	if j.seg == nil {
		return nil
	}
	err := j.seg.close()
	j.seg = nil
	return err
}
