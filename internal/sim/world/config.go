package world

import (
	"fmt"

	"streamworld.dev/internal/sim/tuning"
)

type WorldConfig struct {
	ID     string
	Seed   int64
	Tuning tuning.Tuning
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "main"
	}
	if c.Tuning.ChunkSize == 0 && c.Tuning.TickRateHz == 0 {
		c.Tuning = tuning.Defaults()
	}
	if c.Tuning.TickRateHz <= 0 {
		c.Tuning.TickRateHz = tuning.Defaults().TickRateHz
	}
}

func (c WorldConfig) validate() error {
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("world %s: %w", c.ID, err)
	}
	return nil
}
