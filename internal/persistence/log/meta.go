package log

import (
	"encoding/json"
	"os"
	"path/filepath"

	"streamworld.dev/internal/sim/tuning"
)

// RunMeta records what a replay needs to rebuild the world that wrote a tick log.
type RunMeta struct {
	WorldID   string        `json:"world_id"`
	Seed      int64         `json:"seed"`
	Tuning    tuning.Tuning `json:"tuning"`
	StartedAt string        `json:"started_at"`
}

func metaPath(worldDir string) string { return filepath.Join(worldDir, "meta.json") }

func WriteMeta(worldDir string, m RunMeta) error {
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := metaPath(worldDir) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, metaPath(worldDir))
}

func ReadMeta(worldDir string) (RunMeta, error) {
	var m RunMeta
	b, err := os.ReadFile(metaPath(worldDir))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(b, &m)
	return m, err
}
