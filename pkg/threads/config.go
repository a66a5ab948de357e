package threads

import (
	"errors"
	"fmt"
	"time"

	"github.com/incode-debug/debuggee/pkg/config"
)

// Config describes the thread topology and its pacing.
type Config struct {
	// Window is how long every thread runs before shutdown is requested.
	Window time.Duration

	// Workers are the names of the queue consumers, one thread each.
	Workers         []string
	WorkerCeiling   int
	WorkerBaseDelay time.Duration
	WorkerStepDelay time.Duration

	ProducerCeiling  int
	ProducerInterval time.Duration

	MonitorIterations int
	MonitorInterval   time.Duration

	CPUWorkers    int
	CPUIterations int
	CPUCheckpoint int
	CPUPause      time.Duration
}

// ConfigFrom converts the threads section of the catalog.
func ConfigFrom(t *config.Threads) (Config, error) {
	tm, err := t.Timings()
	if err != nil {
		return Config{}, err
	}
	c := Config{
		Window:            tm.Window,
		Workers:           append([]string(nil), t.Workers...),
		WorkerCeiling:     t.WorkerCeiling,
		WorkerBaseDelay:   tm.WorkerBaseDelay,
		WorkerStepDelay:   tm.WorkerStepDelay,
		ProducerCeiling:   t.ProducerCeiling,
		ProducerInterval:  tm.ProducerInterval,
		MonitorIterations: t.MonitorIterations,
		MonitorInterval:   tm.MonitorInterval,
		CPUWorkers:        t.CPUWorkers,
		CPUIterations:     t.CPUIterations,
		CPUCheckpoint:     t.CPUCheckpoint,
		CPUPause:          tm.CPUPause,
	}
	return c, c.Validate()
}

// DefaultConfig returns the topology described by the embedded catalog.
func DefaultConfig() Config {
	c, err := ConfigFrom(&config.MustLoadCatalog().Threads)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that the topology can run to completion. In particular
// the workers together must be able to take every item the producer can
// push, otherwise items could be left in the queue at shutdown.
func (c Config) Validate() error {
	if len(c.Workers) == 0 {
		return errors.New("at least one worker is required")
	}
	if c.WorkerCeiling <= 0 {
		return fmt.Errorf("worker ceiling must be positive, got %d", c.WorkerCeiling)
	}
	if c.ProducerCeiling < 0 || c.MonitorIterations < 0 || c.CPUWorkers < 0 || c.CPUIterations < 0 {
		return errors.New("ceilings and counts must not be negative")
	}
	if capacity := len(c.Workers) * c.WorkerCeiling; c.ProducerCeiling > capacity {
		return fmt.Errorf("producer ceiling %d exceeds worker capacity %d", c.ProducerCeiling, capacity)
	}
	if c.CPUWorkers > 0 && c.CPUCheckpoint <= 0 {
		return fmt.Errorf("cpu checkpoint must be positive, got %d", c.CPUCheckpoint)
	}
	for _, d := range []time.Duration{c.Window, c.WorkerBaseDelay, c.WorkerStepDelay, c.ProducerInterval, c.MonitorInterval, c.CPUPause} {
		if d < 0 {
			return fmt.Errorf("negative duration %v", d)
		}
	}
	return nil
}
