// internal/workers/rental/index-evaluation/config.go
package indexevaluation

import (
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	IndexName string
	Refresh   string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "rental-evaluations",
		Refresh:   "false",
	}
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if timeout := config.GetWorkerConfig(appConfig, TaskType).TimeoutDuration(); timeout > 0 {
		cfg.Timeout = timeout
	}
	if appConfig.Scoring.IndexName != "" {
		cfg.IndexName = appConfig.Scoring.IndexName
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.IndexName == "" {
		return fmt.Errorf("index name is required")
	}
	switch c.Refresh {
	case "true", "false", "wait_for":
	default:
		return fmt.Errorf("refresh must be true, false or wait_for, got %q", c.Refresh)
	}
	return nil
}
