package scheduler

import (
	"time"

	appconfig "github.com/solobill/solobill/internal/config"
)

// Config controls scheduler intervals and batch sizes.
type Config struct {
	RunInterval    time.Duration
	BatchSize      int
	SendTimeout    time.Duration
	EnabledJobs    []string
	MonthlyReports bool
}

func DefaultConfig() Config {
	return Config{
		RunInterval:    time.Hour,
		BatchSize:      100,
		SendTimeout:    30 * time.Second,
		MonthlyReports: true,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = defaults.SendTimeout
	}
	return c
}

func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		RunInterval:    cfg.Scheduler.RunInterval,
		BatchSize:      cfg.Scheduler.BatchSize,
		SendTimeout:    cfg.Scheduler.SendTimeout,
		EnabledJobs:    cfg.Scheduler.EnabledJobs,
		MonthlyReports: cfg.Scheduler.MonthlyReports,
	}.withDefaults()
}
