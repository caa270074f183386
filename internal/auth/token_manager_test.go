package auth_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oms-books-sync/internal/auth"
	"oms-books-sync/internal/repository/cache"
)

func newStore() *cache.TokenStore {
	return cache.NewTokenStore(cache.NewCache(cache.WithNoJanitor()))
}

func TestTokenManager_SingleFlightRefresh(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	a := auth.AuthorizerFunc(func(ctx context.Context) (auth.Session, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return auth.Session{Token: "tok-1", TTL: 30 * time.Minute}, nil
	})
	m := auth.NewTokenManager(newStore(), a, auth.Options{Prefix: "oms"})

	const n = 25
	var wg sync.WaitGroup
	got := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = m.GetValidToken(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "tok-1", got[i])
	}
}

func TestTokenManager_UsesCacheUntilCleared(t *testing.T) {
	var calls int32
	a := auth.AuthorizerFunc(func(ctx context.Context) (auth.Session, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return auth.Session{Token: "first", TTL: time.Hour}, nil
		}
		return auth.Session{Token: "second", TTL: time.Hour}, nil
	})
	m := auth.NewTokenManager(newStore(), a, auth.Options{Prefix: "oms"})
	ctx := context.Background()

	tok, err := m.GetValidToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", tok)

	tok, err = m.GetValidToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", tok)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	require.NoError(t, m.ClearTokenCache(ctx))

	tok, err = m.GetValidToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", tok)
	require.EqualValues(t, 2, m.Refreshes())
}

func TestTokenManager_StoresTTLMinusBufferClamped(t *testing.T) {
	store := newStore()
	ttl := 30 * time.Minute
	a := auth.AuthorizerFunc(func(ctx context.Context) (auth.Session, error) {
		return auth.Session{Token: "tok", TTL: ttl, Raw: []byte(`{"Token":"tok"}`)}, nil
	})
	m := auth.NewTokenManager(store, a, auth.Options{Prefix: "oms"})
	ctx := context.Background()

	_, err := m.GetValidToken(ctx)
	require.NoError(t, err)
	_, stored, ok, err := store.Get(ctx, "oms:auth:token")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, float64(25*time.Minute), float64(stored), float64(time.Second))

	data, err := m.AuthData(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"Token":"tok"}`, string(data))

	ttl = 2 * time.Minute
	require.NoError(t, m.ClearTokenCache(ctx))
	_, err = m.GetValidToken(ctx)
	require.NoError(t, err)
	_, stored, _, err = store.Get(ctx, "oms:auth:token")
	require.NoError(t, err)
	require.InDelta(t, float64(time.Minute), float64(stored), float64(time.Second))
}

func TestTokenManager_FailureNotCached(t *testing.T) {
	var calls int32
	a := auth.AuthorizerFunc(func(ctx context.Context) (auth.Session, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return auth.Session{}, errors.New("boom")
		}
		return auth.Session{Token: "ok", TTL: time.Hour}, nil
	})
	m := auth.NewTokenManager(newStore(), a, auth.Options{Prefix: "books"})

	_, err := m.GetValidToken(context.Background())
	require.Error(t, err)

	tok, err := m.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", tok)
}

func TestTokenManager_MissingTokenField(t *testing.T) {
	a := auth.AuthorizerFunc(func(ctx context.Context) (auth.Session, error) {
		return auth.Session{TTL: time.Hour}, nil
	})
	m := auth.NewTokenManager(newStore(), a, auth.Options{Prefix: "oms"})

	_, err := m.GetValidToken(context.Background())
	require.ErrorIs(t, err, auth.ErrNoToken)

	st, err := m.Status(context.Background())
	require.NoError(t, err)
	require.False(t, st.HasToken)
}
