package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig(limit, burst int) *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  limit,
		DefaultWindow: time.Second,
		DefaultBurst:  burst,
	}
}

func TestBucket_TakeAndRefill(t *testing.T) {
	start := time.Unix(0, 0)
	b := newBucket(3, 1, start)

	for i := 0; i < 3; i++ {
		assert.True(t, b.take(start), "request %d", i+1)
	}
	assert.False(t, b.take(start))

	assert.True(t, b.take(start.Add(1100*time.Millisecond)))
	assert.False(t, b.take(start.Add(1200*time.Millisecond)))
}

func TestBucket_ResetAt(t *testing.T) {
	start := time.Unix(0, 0)
	b := newBucket(10, 2, start)
	for i := 0; i < 4; i++ {
		b.take(start)
	}
	assert.Equal(t, start.Add(2*time.Second), b.resetAt(start))

	full := newBucket(1, 1, start)
	assert.Equal(t, start, full.resetAt(start))
}

func TestLimiter_Allow(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(testConfig(5, 5), WithClock(clock.Now))
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("127.0.0.1", "/preview", http.MethodGet)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/preview", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 200*time.Millisecond, info.RetryAfter)
	assert.Equal(t, clock.Now().Add(time.Second), info.ResetTime)

	clock.Advance(200 * time.Millisecond)
	allowed, _ = l.Allow("127.0.0.1", "/preview", http.MethodGet)
	assert.True(t, allowed)
}

func TestLimiter_SeparateBuckets(t *testing.T) {
	l := NewLimiter(testConfig(1, 1), WithClock(newFakeClock().Now))
	defer l.Stop()

	allowed, _ := l.Allow("a", "/preview", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("b", "/preview", http.MethodGet)
	assert.True(t, allowed, "other client")
	allowed, _ = l.Allow("a", "/templates", http.MethodGet)
	assert.True(t, allowed, "other path")
	allowed, _ = l.Allow("a", "/preview", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig(1, 1)
	cfg.Whitelist = map[string]bool{"10.0.0.1": true}
	cfg.Blacklist = map[string]bool{"10.0.0.2": true}
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/preview", http.MethodGet)
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/preview", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(NewConfig(0, 0))
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("127.0.0.1", "/export/pdf", http.MethodGet)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	cfg := testConfig(1000, 1000)
	cfg.EndpointConfigs = DefaultEndpointConfigs()
	l := NewLimiter(cfg, WithClock(newFakeClock().Now))
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/export/pdf", http.MethodGet)
		assert.True(t, allowed)
	}
	allowed, info := l.Allow("127.0.0.1", "/export/pdf", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = l.Allow("127.0.0.1", "/export/md", http.MethodGet)
	assert.True(t, allowed, "default limit applies to other formats")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l := NewLimiter(testConfig(1, 1))
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/health", http.MethodGet)
		assert.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(testConfig(50, 50), WithClock(newFakeClock().Now))
	defer l.Stop()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("127.0.0.1", "/preview", http.MethodGet); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowed.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(testConfig(1, 1), WithClock(clock.Now))
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/preview", http.MethodGet)
	}
	clock.Advance(2 * time.Hour)
	l.Allow("client-0", "/preview", http.MethodGet)

	l.evictIdle(clock.Now().Add(-time.Hour))
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_StopEndsCleanup(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig(1, 1)
	cfg.CleanupInterval = time.Millisecond
	cfg.IdleTimeout = time.Hour
	l := NewLimiter(cfg)
	l.Stop()
	l.Stop()
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(2.5, 7)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.DefaultLimit)
	assert.Equal(t, 1200*time.Millisecond, cfg.DefaultWindow)
	assert.Equal(t, 7, cfg.DefaultBurst)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	assert.False(t, NewConfig(0, 10).Enabled)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()
	assert.True(t, l.config.Enabled)
	assert.Equal(t, 10, l.config.DefaultLimit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name   string
		path   string
		method string
		limit  int
		found  bool
	}{
		{name: "exact", path: "/export/pdf", method: http.MethodGet, limit: 10, found: true},
		{name: "prefix", path: "/resume/skills", method: http.MethodPut, limit: 120, found: true},
		{name: "exact beats prefix", path: "/resume", method: http.MethodDelete, limit: 60, found: true},
		{name: "health", path: "/health", method: http.MethodGet, limit: 0, found: true},
		{name: "method mismatch", path: "/customize", method: http.MethodGet},
		{name: "unknown", path: "/templates", method: http.MethodGet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.limit, got.Limit)
		})
	}
}
