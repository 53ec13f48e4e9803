// Package httpclient provides the shared HTTP client used by all region
// sources.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Config holds transport settings. Lookups are small JSON payloads raced
// under a 10s global deadline, so per-phase timeouts stay tight; the
// overall request lifetime is bounded by the race context, not the client.
type Config struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
}

// DefaultConfig returns transport settings sized for reference-data lookups.
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		DialTimeout:           5 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
}

// New creates an HTTP client from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *http.Client {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.DialTimeout,
				KeepAlive: cfg.KeepAlive,
			}).DialContext,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			ForceAttemptHTTP2:     true,
		},
	}
}
