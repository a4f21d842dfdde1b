package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Tick uint64 `json:"tick"`

	HostAttached bool   `json:"host_attached"`
	Observer     [2]int `json:"observer"`

	LoadedChunks   int `json:"loaded_chunks"`
	GroundHandles  int `json:"ground_handles"`
	TreePrimitives int `json:"tree_primitives"`
	PoolAvailable  int `json:"pool_available"`
	PoolCreated    int `json:"pool_created"`
	SceneLive      int `json:"scene_live"`

	// CacheEntries only grows; the noise cache never evicts.
	CacheEntries int `json:"cache_entries"`

	LastLoaded     int    `json:"last_loaded"`
	LastUnloaded   int    `json:"last_unloaded"`
	DroppedBatches uint64 `json:"dropped_batches"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`
}

type QueueDepths struct {
	Pose   int `json:"pose"`
	Attach int `json:"attach"`
	Detach int `json:"detach"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}
