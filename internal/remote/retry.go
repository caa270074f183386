package remote

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	if eb.InitialInterval <= 0 {
		eb.InitialInterval = 500 * time.Millisecond
	}
	eb.MaxInterval = p.MaxInterval
	if eb.MaxInterval <= 0 {
		eb.MaxInterval = 5 * time.Second
	}
	eb.MaxElapsedTime = 0
	eb.Reset()

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// Retry runs op until it succeeds, fails with a non-retryable error or the policy is exhausted.
func Retry(ctx context.Context, p RetryPolicy, op string, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx), func(err error, wait time.Duration) {
		logrus.WithError(err).WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt,
			"wait":    wait,
		}).Warn("remote call failed, retrying")
	})
}

// TokenSource hands out bearer tokens and forgets them when the remote side rejects one.
type TokenSource interface {
	GetValidToken(ctx context.Context) (string, error)
	ClearTokenCache(ctx context.Context) error
}

// WithAuthRetry calls fn with a valid token. On an authentication failure the token cache is
// cleared and fn is attempted exactly once more with a fresh token.
func WithAuthRetry(ctx context.Context, ts TokenSource, fn func(token string) error) error {
	token, err := ts.GetValidToken(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if err == nil || !IsAuth(err) {
		return err
	}

	logrus.WithError(err).Warn("remote rejected token, refreshing")
	if cerr := ts.ClearTokenCache(ctx); cerr != nil {
		logrus.WithError(cerr).Error("clear token cache")
	}
	token, terr := ts.GetValidToken(ctx)
	if terr != nil {
		return terr
	}
	return fn(token)
}
