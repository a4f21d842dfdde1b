package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "streamworld.dev/internal/persistence/log"
	"streamworld.dev/internal/sim/tuning"
	"streamworld.dev/internal/sim/world"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		worldID    = flag.String("world", "main", "world id")
		seed       = flag.Int64("seed", 1337, "world seed")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite tick index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	_ = os.MkdirAll(worldDir, 0o755)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	w, err := world.New(world.WorldConfig{ID: *worldID, Seed: *seed, Tuning: tune})
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	logger.Printf("world=%s seed=%d chunk_size=%d render_distance=%d noise=%s",
		w.ID(), w.Seed(), tune.ChunkSize, tune.RenderDistance, tune.WorldGen.NoiseBackend)

	if err := persistlog.WriteMeta(worldDir, persistlog.RunMeta{
		WorldID:   w.ID(),
		Seed:      w.Seed(),
		Tuning:    tune,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		logger.Fatalf("write meta: %v", err)
	}

	// Optional: read-model index backend (does not affect sim determinism).
	idx, err := openRuntimeIndex(worldDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertMeta(w.ID(), w.Seed(), tune); err != nil {
			logger.Printf("index backend: upsert meta: %v", err)
		}
	}

	tickLog := persistlog.NewJournal(worldDir)
	defer tickLog.Close()
	var idxLogger world.TickLogger
	if idx != nil {
		idxLogger = idx
	}
	w.SetTickLogger(multiTickLogger{a: tickLog, b: idxLogger})

	ctx, cancel := signalContext()
	defer cancel()

	worldDone := runWorld(ctx, w, logger)
	// Deferred closes of the journal and the index run after this: the
	// world loop must be gone before its tick loggers are.
	defer func() {
		cancel()
		<-worldDone
	}()

	mux := newMux(w, idx, muxOptions{
		EnableAdmin: envBool("SW_ENABLE_ADMIN_HTTP", defaultEnableAdminHTTP()),
		EnablePprof: envBool("SW_ENABLE_PPROF_HTTP", false),
	}, logger)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Printf("ListenAndServe: %v", err)
	}
}

// runWorld runs the world loop until ctx ends; the returned channel closes once
// no tick can be in progress anymore.
func runWorld(ctx context.Context, w *world.World, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()
	return done
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}
