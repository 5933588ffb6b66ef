package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits page loads per hostname.
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

// NewHostLimiter returns nil for a non-positive rate, which disables limiting.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if reqPerSec <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

// WaitURL blocks until a request to raw's host is allowed. A wait that
// cannot finish before ctx's deadline reports context.DeadlineExceeded.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	if hl == nil {
		return nil
	}
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}
	err := hl.limiterFor(host).Wait(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("rate limit %s: %w", host, context.DeadlineExceeded)
	}
	return err
}
