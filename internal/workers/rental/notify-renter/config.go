// internal/workers/rental/notify-renter/config.go
package notifyrenter

import (
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"
	"rentcheck-workers/internal/common/validation"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}

// LoadConfig reads the worker timeout and the notifications section.
func LoadConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if timeout := config.GetWorkerConfig(appConfig, TaskType).TimeoutDuration(); timeout > 0 {
		cfg.Timeout = timeout
	}
	cfg.EmailEnabled = appConfig.Notifications.Email.Enabled
	cfg.FromEmail = appConfig.Notifications.Email.FromEmail
	cfg.SMSEnabled = appConfig.Notifications.SMS.Enabled
	cfg.SenderID = appConfig.Notifications.SMS.SenderID
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.EmailEnabled && !validation.ValidateEmail(c.FromEmail) {
		return fmt.Errorf("from email %q is invalid", c.FromEmail)
	}
	if len(c.SenderID) > 11 {
		return fmt.Errorf("sender id must be at most 11 characters")
	}
	return nil
}
