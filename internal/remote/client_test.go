package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oms-books-sync/internal/remote"
)

func fastPolicy(n int) remote.RetryPolicy {
	return remote.RetryPolicy{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestClient_Do_RetriesTransientThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c := remote.NewClient(remote.Config{BaseURL: srv.URL, Retry: fastPolicy(3)}, srv.Client())

	var out struct {
		Value string `json:"value"`
	}
	require.NoError(t, c.Do(context.Background(), remote.Request{Op: "get", Method: http.MethodGet, Path: "/x"}, &out))
	require.Equal(t, "ok", out.Value)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedSurfacedAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := remote.NewClient(remote.Config{BaseURL: srv.URL, Retry: fastPolicy(2)}, srv.Client())

	err := c.Do(context.Background(), remote.Request{Op: "get", Method: http.MethodGet, Path: "/x"}, nil)
	require.Error(t, err)
	require.True(t, remote.IsRateLimited(err))
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_Do_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := remote.NewClient(remote.Config{BaseURL: srv.URL, Retry: fastPolicy(5)}, srv.Client())

	err := c.Do(context.Background(), remote.Request{Op: "items.get", Method: http.MethodGet, Path: "/items/1"}, nil)
	require.True(t, remote.IsNotFound(err))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var apiErr *remote.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "items.get", apiErr.Op)
	require.Equal(t, "/items/1", apiErr.URL)
}

func TestClassify_InvalidTokenMessage(t *testing.T) {
	require.Equal(t, remote.KindAuth, remote.Classify(http.StatusBadRequest, `{"Message":"Invalid token"}`))
	require.Equal(t, remote.KindAuth, remote.Classify(http.StatusUnauthorized, ""))
	require.Equal(t, remote.KindValidation, remote.Classify(http.StatusBadRequest, "bad"))
	require.Equal(t, remote.KindTransient, remote.Classify(http.StatusServiceUnavailable, ""))
}

type tokenStub struct {
	tokens  []string
	n       int
	cleared int
}

func (s *tokenStub) GetValidToken(context.Context) (string, error) {
	t := s.tokens[s.n]
	if s.n < len(s.tokens)-1 {
		s.n++
	}
	return t, nil
}

func (s *tokenStub) ClearTokenCache(context.Context) error { s.cleared++; return nil }

func TestWithAuthRetry_RetriesOnceWithFreshToken(t *testing.T) {
	ts := &tokenStub{tokens: []string{"stale", "fresh"}}
	var seen []string

	err := remote.WithAuthRetry(context.Background(), ts, func(token string) error {
		seen = append(seen, token)
		if token == "stale" {
			return &remote.APIError{StatusCode: http.StatusUnauthorized, Kind: remote.KindAuth}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"stale", "fresh"}, seen)
	require.Equal(t, 1, ts.cleared)
}

func TestWithAuthRetry_SecondAuthFailureSurfaced(t *testing.T) {
	ts := &tokenStub{tokens: []string{"a", "b", "c"}}
	calls := 0

	err := remote.WithAuthRetry(context.Background(), ts, func(string) error {
		calls++
		return &remote.APIError{StatusCode: http.StatusUnauthorized, Kind: remote.KindAuth}
	})
	require.True(t, remote.IsAuth(err))
	require.Equal(t, 2, calls)
	require.Equal(t, 1, ts.cleared)
}

func TestLimiter_BoundsConcurrency(t *testing.T) {
	l := remote.NewLimiter(60000, 2)

	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}
