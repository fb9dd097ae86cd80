package storage

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for storage operations
type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" yaml:"max_attempts"`
	InitialDelay  time.Duration `json:"initial_delay" yaml:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay" yaml:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor" yaml:"backoff_factor"`
	JitterEnabled bool          `json:"jitter_enabled" yaml:"jitter_enabled"`
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// WithRetry executes an operation with retry logic
func WithRetry(ctx context.Context, config *RetryConfig, op RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt >= config.MaxAttempts || !IsRetryable(err) {
			break
		}

		delay := config.calculateDelay(attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// calculateDelay calculates the delay before the next retry attempt
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	// Exponential backoff: delay = initial_delay * (backoff_factor ^ (attempt - 1))
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))

	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	// Add jitter to prevent thundering herd
	if c.JitterEnabled {
		jitter := rand.Float64() * 0.1 * delay // Up to 10% jitter
		delay += jitter
	}

	return time.Duration(delay)
}

// RetryableKVStore wraps a KVStore implementation with retry logic
type RetryableKVStore struct {
	store  KVStore
	config *RetryConfig
}

// NewRetryableKVStore creates a new RetryableKVStore
func NewRetryableKVStore(store KVStore, config *RetryConfig) *RetryableKVStore {
	if config == nil {
		config = DefaultRetryConfig()
	}

	return &RetryableKVStore{
		store:  store,
		config: config,
	}
}

func (r *RetryableKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := WithRetry(ctx, r.config, func(ctx context.Context) error {
		var opErr error
		value, opErr = r.store.Get(ctx, key)
		return opErr
	})
	return value, err
}

func (r *RetryableKVStore) Put(ctx context.Context, key string, value []byte) error {
	return WithRetry(ctx, r.config, func(ctx context.Context) error {
		return r.store.Put(ctx, key, value)
	})
}

func (r *RetryableKVStore) Delete(ctx context.Context, key string) error {
	return WithRetry(ctx, r.config, func(ctx context.Context) error {
		return r.store.Delete(ctx, key)
	})
}

func (r *RetryableKVStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := WithRetry(ctx, r.config, func(ctx context.Context) error {
		var opErr error
		keys, opErr = r.store.List(ctx, prefix)
		return opErr
	})
	return keys, err
}

func (r *RetryableKVStore) Close() error {
	return r.store.Close()
}
