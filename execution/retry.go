package execution

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
)

var (
	defaultRetryAttempts = uint(4)
	defaultRetryDelay    = 2 * time.Second
	defaultRetryTimeout  = 5 * time.Minute
)

type retryCallback[T any] func(ctx context.Context) (T, error)

// Retry runs the callback with a per-attempt timeout under the default
// backoff policy, returning the last error only.
func Retry[T any](ctx context.Context, timeout time.Duration, callback retryCallback[T], opts ...retry.Option) (T, error) {
	var returnValue T
	var err error

	defaults := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(defaultRetryAttempts),
		retry.Delay(defaultRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}

	err = retry.Do(func() error {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		returnValue, err = callback(rctx)

		return err
	}, append(defaults, opts...)...)

	return returnValue, err
}

// RetryRunner decorates a Runner with retries around the batch round-trip.
// Retrying is safe: circuit generation is deterministic and submission has
// no core-side state, so a failed batch can simply be resubmitted.
type RetryRunner struct {
	inner   Runner
	timeout time.Duration
	opts    []retry.Option
}

// NewRetryRunner wraps the runner. The timeout bounds each attempt; zero
// selects the default.
func NewRetryRunner(inner Runner, timeout time.Duration, opts ...retry.Option) *RetryRunner {
	if timeout <= 0 {
		timeout = defaultRetryTimeout
	}

	return &RetryRunner{inner: inner, timeout: timeout, opts: opts}
}

// Submit implements Runner.
func (r *RetryRunner) Submit(
	ctx context.Context, circuits []*circuit.Circuit, shots int,
) (map[circuit.ID]dataset.OutcomeCounts, error) {
	return Retry(ctx, r.timeout, func(rctx context.Context) (map[circuit.ID]dataset.OutcomeCounts, error) {
		return r.inner.Submit(rctx, circuits, shots)
	}, r.opts...)
}
