package tasks

import "time"

const (
	defaultWorkers         = 1
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// Config sizes the worker pool of the task queue. Zero fields take the
// package defaults.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration // a task claimed longer than this is handed out again
	CleanupInterval time.Duration // how often finished tasks are purged
}

// DefaultConfig is one worker, a 15m release and an hourly purge.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = defaultReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultCleanupInterval
	}
	return c
}
