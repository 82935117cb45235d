package ratelimit

import (
	"math"
	"net/http"
	"time"
)

// EndpointConfig limits one route. Paths ending in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	// Limit is the number of requests allowed per Window.
	Limit  int
	Window time.Duration
	// Burst is the bucket capacity. Zero means Limit.
	Burst int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig allows ten requests per second with bursts of twenty.
func DefaultConfig() *Config {
	return NewConfig(10, 20)
}

// NewConfig builds a config from a per-second rate and burst. A rate of
// zero disables limiting.
func NewConfig(perSecond float64, burst int) *Config {
	if perSecond <= 0 {
		return &Config{Enabled: false}
	}
	limit := int(math.Ceil(perSecond))
	window := time.Duration(float64(limit) / perSecond * float64(time.Second))
	return &Config{
		Enabled:         true,
		DefaultLimit:    limit,
		DefaultWindow:   window,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// PDF export starts a browser.
		{Path: "/export/pdf", Method: http.MethodGet, Limit: 10, Window: time.Minute, Burst: 2},

		// Conversions and writes.
		{Path: "/customize", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/markdown", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resume/save", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/resume/", Method: http.MethodPut, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resume", Method: http.MethodPut, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resume", Method: http.MethodDelete, Limit: 60, Window: time.Minute, Burst: 10},
	}
}
