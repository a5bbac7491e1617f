package cleanup

import (
	"time"

	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// Config holds cleanup worker settings.
type Config struct {
	CleanupInterval  time.Duration
	SessionStateTTL  time.Duration
	CartCacheTTL     time.Duration
	CustomerTokenTTL time.Duration
	VerboseReporting bool
}

// NewConfig builds the worker configuration from process defaults.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.CleanupInterval,
		SessionStateTTL:  config.SessionStateTTL,
		CartCacheTTL:     config.CartCacheTTL,
		CustomerTokenTTL: config.CustomerSessionTTL,
		VerboseReporting: config.CleanupVerboseReporting,
	}
}
