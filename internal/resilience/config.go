package resilience

import "time"

// FromRetryConfig maps configuration values to a RetryConfig. retryOnEmpty
// controls whether empty backend results count as retryable; when false only
// transient failures are retried.
func FromRetryConfig(maxAttempts, initialBackoffMs int, retryOnEmpty bool) RetryConfig {
	cfg := RetryConfig{}.withDefaults()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		cfg.InitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
	if retryOnEmpty {
		cfg.ShouldRetry = IsRetryable
	} else {
		cfg.ShouldRetry = IsTransient
	}
	return cfg
}
