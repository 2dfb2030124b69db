// internal/workers/rental/evaluate-rental-application/config.go
package evaluaterentalapplication

import (
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"
)

type Config struct {
	Timeout            time.Duration
	ProfileCacheTTL    time.Duration
	ProfileCachePrefix string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:            10 * time.Second,
		ProfileCacheTTL:    15 * time.Minute,
		ProfileCachePrefix: "renter:profile:",
	}
}

// LoadConfig reads the worker and scoring sections from the application config.
func LoadConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if timeout := config.GetWorkerConfig(appConfig, TaskType).TimeoutDuration(); timeout > 0 {
		cfg.Timeout = timeout
	}
	if ttl := appConfig.Scoring.ProfileCacheDuration(); ttl > 0 {
		cfg.ProfileCacheTTL = ttl
	}
	if appConfig.Scoring.ProfileCachePrefix != "" {
		cfg.ProfileCachePrefix = appConfig.Scoring.ProfileCachePrefix
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ProfileCacheTTL < 0 {
		return fmt.Errorf("profile cache ttl must not be negative")
	}
	if c.ProfileCachePrefix == "" {
		return fmt.Errorf("profile cache prefix is required")
	}
	return nil
}
