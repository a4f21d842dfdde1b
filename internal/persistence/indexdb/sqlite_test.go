package indexdb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"streamworld.dev/internal/sim/tuning"
	"streamworld.dev/internal/sim/world"
)

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan world.TickLogEntry, 1)}
	s.ch <- world.TickLogEntry{Tick: 1}

	_ = s.WriteTick(world.TickLogEntry{Tick: 2})
	_ = s.WriteTick(world.TickLogEntry{Tick: 3})

	st := s.Stats()
	if st.DropTickTotal != 2 {
		t.Fatalf("DropTickTotal=%d want=2", st.DropTickTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_WritesTicksAndMeta(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index", "world.sqlite")
	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	tune := tuning.Defaults()
	if err := idx.UpsertMeta("main", 1337, tune); err != nil {
		t.Fatalf("meta: %v", err)
	}
	for i := 0; i < 5; i++ {
		_ = idx.WriteTick(world.TickLogEntry{
			Tick:           uint64(i),
			Observer:       [2]int{i, -i},
			Loaded:         81 * boolInt(i == 0),
			LoadedTotal:    81,
			PoolAvailable:  i,
			HandlesCreated: 81 * 256,
			CacheEntries:   81 * 256,
			Digest:         "digest",
		})
	}
	// Close drains the queue and commits the final batch.
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := idx.Stats().WrittenTotal; got != 5 {
		t.Fatalf("written=%d want 5", got)
	}

	idx, err = OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	rows, err := idx.RecentTicks(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 3 || rows[0].Tick != 4 || rows[0].ObserverCX != 4 || rows[0].ObserverCZ != -4 {
		t.Fatalf("rows=%+v", rows)
	}
	if rows[2].PoolAvailable != 2 || rows[2].HandlesCreated != 81*256 {
		t.Fatalf("row=%+v", rows[2])
	}

	seed, err := idx.Meta(ctx, "seed")
	if err != nil || seed != "1337" {
		t.Fatalf("seed=%q err=%v", seed, err)
	}
	raw, err := idx.Meta(ctx, "tuning")
	if err != nil {
		t.Fatalf("tuning: %v", err)
	}
	var back tuning.Tuning
	if err := json.Unmarshal([]byte(raw), &back); err != nil || back != tune {
		t.Fatalf("tuning round trip: %v %+v", err, back)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestSQLiteIndex_WriteAfterCloseIsIgnored(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "world.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Writers racing Close must never send on the closed queue.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				_ = idx.WriteTick(world.TickLogEntry{Tick: uint64(g*1000 + i)})
			}
		}(g)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()

	if err := idx.WriteTick(world.TickLogEntry{Tick: 99999}); err != nil {
		t.Fatalf("write after close: %v", err)
	}
	st := idx.Stats()
	if st.WrittenTotal+st.DropTickTotal > 2000 {
		t.Fatalf("more ticks accounted than written: %+v", st)
	}
}
