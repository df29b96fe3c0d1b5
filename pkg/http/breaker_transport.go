package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type breakerTransport struct {
	breaker   *gobreaker.TwoStepCircuitBreaker
	transport http.RoundTripper
}

// RoundTrip fails fast with gobreaker.ErrOpenState while the breaker is open.
// Network errors and 5xx responses count as failures; the response itself is
// still handed back to the caller untouched.
func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	done, err := t.breaker.Allow()
	if err != nil {
		ctxzap.Warn(req.Context(), "circuit breaker rejected outbound request",
			zap.String("url", req.URL.Redacted()),
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := t.transport.RoundTrip(req)
	done(err == nil && resp.StatusCode < http.StatusInternalServerError)

	return resp, err
}

// WithCircuitBreaker trips after at least 3 requests in the interval with a
// failure ratio of 60% or more, and probes again after openTimeout.
func WithCircuitBreaker(name string, openTimeout time.Duration, logger *zap.Logger) HttpOpts {
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			}
		},
	})

	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &breakerTransport{
			breaker:   breaker,
			transport: rt,
		}
	})
}
