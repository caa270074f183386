package auth

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"oms-books-sync/internal/repository"
)

var (
	ErrMissingCredentials = errors.New("missing authentication credentials")
	ErrNoToken            = errors.New("authorization response has no token")
)

const (
	DefaultRefreshBuffer = 5 * time.Minute
	DefaultMinTTL        = 60 * time.Second
	refreshTimeout       = 30 * time.Second
)

// Session is what a vendor returns when it hands out a token.
type Session struct {
	Token string          `json:"token"`
	TTL   time.Duration   `json:"ttl"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}

// Authorizer performs the network call that obtains a new token.
type Authorizer interface {
	Authorize(ctx context.Context) (Session, error)
}

type AuthorizerFunc func(ctx context.Context) (Session, error)

func (f AuthorizerFunc) Authorize(ctx context.Context) (Session, error) { return f(ctx) }

type Options struct {
	// Prefix namespaces the store keys, e.g. "oms" gives oms:auth:token and oms:auth:data.
	Prefix        string
	RefreshBuffer time.Duration
	MinTTL        time.Duration
}

// TokenManager hands out a valid bearer token to any number of concurrent callers while making at
// most one refresh call at a time.
type TokenManager struct {
	store  repository.TokenStore
	auth   Authorizer
	buffer time.Duration
	minTTL time.Duration

	tokenKey string
	dataKey  string

	group     singleflight.Group
	refreshes atomic.Int64
	log       *logrus.Entry
}

func NewTokenManager(store repository.TokenStore, a Authorizer, opts Options) *TokenManager {
	if opts.RefreshBuffer <= 0 {
		opts.RefreshBuffer = DefaultRefreshBuffer
	}
	if opts.MinTTL <= 0 {
		opts.MinTTL = DefaultMinTTL
	}
	return &TokenManager{
		store:    store,
		auth:     a,
		buffer:   opts.RefreshBuffer,
		minTTL:   opts.MinTTL,
		tokenKey: opts.Prefix + ":auth:token",
		dataKey:  opts.Prefix + ":auth:data",
		log:      logrus.WithField("token", opts.Prefix),
	}
}

// GetValidToken returns the cached token or refreshes it. The cached entry expires a refresh buffer
// ahead of the vendor expiry, so a present entry always has more than the buffer left.
func (m *TokenManager) GetValidToken(ctx context.Context) (string, error) {
	if tok, ok := m.cached(ctx); ok {
		return tok, nil
	}

	v, err, shared := m.group.Do(m.tokenKey, func() (interface{}, error) {
		if tok, ok := m.cached(ctx); ok {
			return tok, nil
		}
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return m.refresh(rctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		m.log.Debug("joined in-flight token refresh")
	}
	return v.(string), nil
}

func (m *TokenManager) cached(ctx context.Context) (string, bool) {
	tok, ttl, ok, err := m.store.Get(ctx, m.tokenKey)
	if err != nil {
		m.log.WithError(err).Warn("token store read failed")
		return "", false
	}
	if !ok || tok == "" || ttl == 0 {
		return "", false
	}
	return tok, true
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	m.refreshes.Add(1)
	m.log.Info("refreshing token")

	sess, err := m.auth.Authorize(ctx)
	if err != nil {
		return "", errors.Wrap(err, "authorize")
	}
	if sess.Token == "" {
		return "", ErrNoToken
	}

	ttl := sess.TTL - m.buffer
	if ttl < m.minTTL {
		ttl = m.minTTL
	}
	if err := m.store.Set(ctx, m.tokenKey, sess.Token, ttl); err != nil {
		m.log.WithError(err).Error("token store write failed")
	}
	if len(sess.Raw) > 0 {
		if err := m.store.Set(ctx, m.dataKey, string(sess.Raw), ttl); err != nil {
			m.log.WithError(err).Warn("token data write failed")
		}
	}

	m.log.WithField("ttl", ttl).Info("token refreshed")
	return sess.Token, nil
}

// ClearTokenCache forgets the cached token, forcing the next caller to refresh.
func (m *TokenManager) ClearTokenCache(ctx context.Context) error {
	return m.store.Delete(ctx, m.tokenKey, m.dataKey)
}

// AuthData returns the raw authorization response stored with the token, if any.
func (m *TokenManager) AuthData(ctx context.Context) (json.RawMessage, error) {
	data, _, ok, err := m.store.Get(ctx, m.dataKey)
	if err != nil || !ok {
		return nil, err
	}
	return json.RawMessage(data), nil
}

type Status struct {
	HasToken  bool          `json:"hasToken"`
	ExpiresIn time.Duration `json:"expiresIn"`
	Refreshes int64         `json:"refreshes"`
}

func (m *TokenManager) Status(ctx context.Context) (Status, error) {
	tok, ttl, ok, err := m.store.Get(ctx, m.tokenKey)
	if err != nil {
		return Status{}, err
	}
	st := Status{HasToken: ok && tok != "", Refreshes: m.refreshes.Load()}
	if st.HasToken && ttl > 0 {
		st.ExpiresIn = ttl
	}
	return st, nil
}

// Refreshes is the number of network refreshes made so far.
func (m *TokenManager) Refreshes() int64 {
	return m.refreshes.Load()
}
