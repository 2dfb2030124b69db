// internal/workers/rental/check-document-readiness/config.go
package checkdocumentreadiness

import (
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

// LoadConfig reads the worker section for TaskType from the application config.
func LoadConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig != nil {
		if timeout := config.GetWorkerConfig(appConfig, TaskType).TimeoutDuration(); timeout > 0 {
			cfg.Timeout = timeout
		}
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
