package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(cfg *Config) (*Limiter, *time.Time) {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_AllowAndDeny(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := range 5 {
		ok, info := l.Allow("10.0.0.1", "/sections", "POST")
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	ok, info := l.Allow("10.0.0.1", "/sections", "POST")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	// 5 per minute refills one token every 12 seconds.
	assert.InDelta(t, (12 * time.Second).Seconds(), info.RetryAfter.Seconds(), 0.01)
	assert.True(t, info.ResetTime.After(time.Date(2026, 1, 1, 0, 0, 59, 0, time.UTC)))

	ok, _ = l.Allow("10.0.0.2", "/sections", "POST")
	assert.True(t, ok, "clients have separate buckets")
}

func TestLimiter_Refill(t *testing.T) {
	l, now := testLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()

	for range 60 {
		l.Allow("c", "/score", "GET")
	}
	ok, _ := l.Allow("c", "/score", "GET")
	require.False(t, ok)

	*now = now.Add(time.Second)
	ok, _ = l.Allow("c", "/score", "GET")
	assert.True(t, ok)
	ok, _ = l.Allow("c", "/score", "GET")
	assert.False(t, ok)
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	l, _ := testLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"trusted": true},
		Blacklist:     map[string]bool{"banned": true},
	})
	defer l.Stop()

	for range 10 {
		ok, _ := l.Allow("trusted", "/score", "POST")
		assert.True(t, ok)
	}
	ok, _ := l.Allow("banned", "/score", "POST")
	assert.False(t, ok)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()
	for range 100 {
		ok, info := l.Allow("c", "/score", "POST")
		require.True(t, ok)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := testLimiter(DefaultConfig())
	defer l.Stop()

	for range 5 {
		ok, _ := l.Allow("c", "/upload", "POST")
		require.True(t, ok)
	}
	ok, info := l.Allow("c", "/upload", "POST")
	assert.False(t, ok, "upload burst is 5")
	assert.Equal(t, 30, info.Limit)

	ok, info = l.Allow("c", "/sections", "POST")
	assert.True(t, ok, "other endpoints use the default limit")
	assert.Equal(t, 600, info.Limit)

	ok, info = l.Allow("c", "/health", "GET")
	assert.True(t, ok)
	assert.Zero(t, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/score", "POST"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(50), allowed.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, now := testLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour})
	defer l.Stop()

	l.Allow("old", "/score", "POST")
	*now = now.Add(2 * time.Hour)
	l.Allow("fresh", "/score", "POST")

	assert.Equal(t, 1, l.evictIdle())
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "fresh:/score:POST")
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/upload", Method: "POST", Limit: 1},
		{Path: "/reports/", Method: "DELETE", Limit: 2},
	}
	tests := []struct {
		name, path, method string
		want               int
		found              bool
	}{
		{"exact", "/upload", "POST", 1, true},
		{"prefix", "/reports/abc", "DELETE", 2, true},
		{"method mismatch", "/reports/abc", "GET", 0, false},
		{"no match", "/score", "POST", 0, false},
		{"health", "/health", "GET", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["2.2.2.2"])
	assert.Empty(t, cfg.Blacklist)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
