package storage

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/sefazor/photoview-backend/pkg/logger"
)

// maxAttempts bounds the retry loop for transient connectivity failures.
const maxAttempts = 12

// initialInterval seeds the exponential backoff schedule. Tests shrink it.
var initialInterval = 500 * time.Millisecond

// withRetry runs op with bounded exponential backoff. Only transient
// connectivity errors are retried; everything else propagates immediately.
func withRetry(ctx context.Context, op string, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval

	attempt := 0
	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		attempt++
		logger.L().Warn("transient store error",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx))
}
