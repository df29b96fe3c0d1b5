package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 5
	defaultMaxDelay = 5 * time.Second
	defaultDelay    = 500 * time.Millisecond
)

// RetryConfig configures retries of startup dependencies. User-facing calls to
// the model, translator and synthesizer are never retried.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"5"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
	}
}

// Do runs fn until it succeeds, attempts are exhausted or ctx is done.
// onRetry may be nil.
func Do(ctx context.Context, rc *RetryConfig, fn func() error, onRetry func(attempt uint, err error)) error {
	opts := append(rc.ToRetryOptions(), retry.Context(ctx))
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}
	return retry.Do(fn, opts...)
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
