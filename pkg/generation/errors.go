package generation

import (
	"errors"
	"fmt"
	"time"
)

// The only two failure classes that cross the pipeline boundary. Everything
// else feeds the fallback cascade.

// ConfigurationError means a required credential or setting is absent.
// It is surfaced immediately, before any provider call.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s (%s)", e.Setting, e.Reason)
}

// RateLimitError means the first configured provider's request budget for the
// current window is exhausted. Retry timing is the caller's decision.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for provider %s, retry after %s", e.Provider, e.RetryAfter)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsRateLimitError reports whether err wraps a RateLimitError.
func IsRateLimitError(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}
