// Package fetch loads raw page HTML through a rotating network identity
// with a bounded number of attempts.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultAttempts is the retry budget of one Fetch.
	DefaultAttempts = 3
	// FailureDelay is waited after a failed attempt before the next one.
	FailureDelay = 1200 * time.Millisecond
	// Settle delays after a successful load fall in [SettleMin, SettleMin+SettleJitter).
	SettleMin    = 1200 * time.Millisecond
	SettleJitter = 900 * time.Millisecond
)

// Transport opens one network session per attempt.
type Transport interface {
	Open(ctx context.Context, id Identity) (Session, error)
}

// Session loads a page. It is closed after every attempt, successful or not.
type Session interface {
	Load(ctx context.Context, url string) (string, error)
	Close() error
}

// FetchError is returned once every attempt has failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return MaskProxy(fmt.Sprintf("fetch %s: %d attempts failed: %v", e.URL, e.Attempts, e.Err))
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err came from exhausted fetch attempts.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Fetcher retrieves raw HTML. It holds no per-call state and is safe for
// concurrent use.
type Fetcher struct {
	transport Transport
	pool      IdentityPool
	attempts  int
	limiter   *HostLimiter
	logger    *log.Logger

	intn   func(int) int
	sleep  func(context.Context, time.Duration) error
	settle func() time.Duration
}

// New builds a Fetcher. A nil logger logs to the standard logger.
func New(t Transport, pool IdentityPool, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(log.Writer(), log.Prefix(), log.Flags())
	}
	return &Fetcher{
		transport: t,
		pool:      pool,
		attempts:  DefaultAttempts,
		logger:    logger,
		intn:      defaultIntn,
		sleep:     sleepCtx,
		settle:    randomSettle,
	}
}

// WithLimiter sets a per-host limiter waited on before every attempt.
func (f *Fetcher) WithLimiter(l *HostLimiter) *Fetcher {
	f.limiter = l
	return f
}

// Fetch returns the page HTML or a *FetchError after the attempt budget.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	reqID := uuid.NewString()[:8]
	proxy := f.pool.firstProxy(f.intn)

	var lastErr error
	made := 0
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if err := f.limiter.WaitURL(ctx, url); err != nil {
			return "", err
		}

		id := Identity{UserAgent: f.pool.userAgent(f.intn), Proxy: proxy}
		f.logger.Printf("🕵️ [%s] identity %d/%d proxy: %s UA: %s", reqID, attempt, f.attempts, DescribeProxy(id.Proxy), id.UserAgent)

		made = attempt
		html, err := f.attempt(ctx, url, id)
		if err == nil {
			f.logger.Printf("✅ [%s] loaded %s (%d bytes)", reqID, url, len(html))
			_ = f.sleep(ctx, f.settle())
			return html, nil
		}

		lastErr = err
		f.logger.Printf("⚠️ [%s] attempt %d failed: %s", reqID, attempt, MaskProxy(err.Error()))
		if ctx.Err() != nil {
			break
		}
		proxy = f.pool.reroll(proxy, f.intn)
		if attempt < f.attempts {
			if err := f.sleep(ctx, FailureDelay); err != nil {
				break
			}
		}
	}
	return "", &FetchError{URL: url, Attempts: made, Err: lastErr}
}

// attempt owns the session for exactly one try.
func (f *Fetcher) attempt(ctx context.Context, url string, id Identity) (html string, err error) {
	sess, err := f.transport.Open(ctx, id)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			f.logger.Printf("⚠️ session close: %s", MaskProxy(cerr.Error()))
		}
	}()
	return sess.Load(ctx, url)
}

func randomSettle() time.Duration {
	return SettleMin + time.Duration(rand.Int63n(int64(SettleJitter)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Discard is a logger that drops everything.
var Discard = log.New(io.Discard, "", 0)
