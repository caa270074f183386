package cache

import (
	"sync"
	"time"
)

type KV interface {
	Put(key string, v any, ttl time.Duration)
	Get(key string) (any, time.Duration, bool)
	Delete(keys ...string)
	Snapshot() map[string]any
}

// Cache is an in-process KV whose entries each carry their own expiry. A zero ttl never expires.
type Cache struct {
	Data  map[string]expiring
	Mutex sync.RWMutex

	janitor time.Duration
	ticker  *time.Ticker
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

type Option func(*Cache)

func WithJanitor(every time.Duration) Option { return func(c *Cache) { c.janitor = every } }
func WithNoJanitor() Option                  { return func(c *Cache) { c.janitor = 0 } }
func WithClock(now func() time.Time) Option  { return func(c *Cache) { c.now = now } }

func NewCache(opts ...Option) *Cache {
	c := &Cache{
		Data:    make(map[string]expiring),
		janitor: time.Minute,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}

	if c.janitor > 0 {
		c.ticker = time.NewTicker(c.janitor)
		go func() {
			for {
				select {
				case <-c.ticker.C:
					c.purgeExpired()
				case <-c.stop:
					return
				}
			}
		}()
	}
	return c
}

func (c *Cache) Close() {
	c.once.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.stop)
	})
}

type expiring struct {
	V any
	E time.Time
}

func (e expiring) expired(now time.Time) bool {
	return !e.E.IsZero() && !now.Before(e.E)
}

func (c *Cache) Put(key string, v any, ttl time.Duration) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	if ttl > 0 {
		c.Data[key] = expiring{V: v, E: c.now().Add(ttl)}
	} else {
		c.Data[key] = expiring{V: v}
	}
}

// Get returns the value and its remaining ttl. The ttl is negative for entries without expiry.
func (c *Cache) Get(key string) (any, time.Duration, bool) {
	c.Mutex.RLock()
	ex, ok := c.Data[key]
	c.Mutex.RUnlock()
	if !ok {
		return nil, 0, false
	}
	now := c.now()
	if ex.expired(now) {
		c.Delete(key)
		return nil, 0, false
	}
	if ex.E.IsZero() {
		return ex.V, -1, true
	}
	return ex.V, ex.E.Sub(now), true
}

func (c *Cache) Delete(keys ...string) {
	c.Mutex.Lock()
	for _, k := range keys {
		delete(c.Data, k)
	}
	c.Mutex.Unlock()
}

func (c *Cache) purgeExpired() {
	now := c.now()
	c.Mutex.Lock()
	for k, v := range c.Data {
		if v.expired(now) {
			delete(c.Data, k)
		}
	}
	c.Mutex.Unlock()
}

func (c *Cache) Snapshot() map[string]any {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()

	out := make(map[string]any, len(c.Data))
	now := c.now()
	for k, v := range c.Data {
		if v.expired(now) {
			continue
		}
		out[k] = v.V
	}
	return out
}
