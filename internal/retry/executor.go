package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// RetryFunc observes a failed attempt before the executor sleeps.
type RetryFunc func(attempt int, err error, delay time.Duration)

// Executor orchestrates retry attempts with backoff and error classification.
// It is safe for concurrent use; WithOnRetry returns a copy.
type Executor struct {
	classifier ddlcheck.ErrorClassifier
	strategy   ddlcheck.BackoffStrategy
	onRetry    RetryFunc
}

// NewExecutor creates a new retry executor.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier ddlcheck.ErrorClassifier, strategy ddlcheck.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that reports each retry to fn.
func (e *Executor) WithOnRetry(fn RetryFunc) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// Execute runs operation until it succeeds, fails fatally, the retry budget
// is spent or ctx ends. A fatal error is returned unchanged; an exhausted
// budget wraps the last transient error.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	if err == nil || !e.classifier.IsTransient(err) {
		return err
	}

	maxAttempts := e.strategy.MaxAttempts()
	attempt := 0
	for ; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		if waitErr := sleep(ctx, delay); waitErr != nil {
			return waitErr
		}

		err = operation(ctx)
		if err == nil || !e.classifier.IsTransient(err) {
			return err
		}
	}

	if attempt == 0 {
		return err
	}
	return fmt.Errorf("giving up after %d retries: %w", attempt, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
