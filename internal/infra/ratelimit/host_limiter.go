package ratelimit

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter throttles outbound requests per host so that loading a
// burst of article links never hammers a single news site.
type HostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	interval time.Duration
	burst    int
}

func NewHostLimiter(interval time.Duration, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

// Wait blocks until the host of rawURL may be contacted again, or the
// context is cancelled.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if parsed.Host == "" {
		return &url.Error{Op: "parse", URL: rawURL, Err: errors.New("missing host in URL")}
	}
	return h.limiterFor(parsed.Host).Wait(ctx)
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.RLock()
	limiter, ok := h.limiters[host]
	h.mu.RUnlock()
	if ok {
		return limiter
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if limiter, ok := h.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Every(h.interval), h.burst)
	h.limiters[host] = limiter
	return limiter
}
