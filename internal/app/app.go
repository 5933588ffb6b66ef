// Package app wires configuration into a ready scraper for every front end.
package app

import (
	"fmt"
	"log"

	"go-workua-scraper/internal/browser"
	"go-workua-scraper/internal/config"
	"go-workua-scraper/internal/fetch"
	"go-workua-scraper/internal/scraper/workua"
)

// limiterBurst lets the first page of a search through without waiting.
const limiterBurst = 2

// Runtime owns the scraper and whatever its transport keeps running.
type Runtime struct {
	Scraper *workua.Scraper
	Config  *config.Config

	stop func() error
}

// New builds the transport, identity pool and fetcher described by cfg.
func New(cfg *config.Config) (*Runtime, error) {
	proxies, err := fetch.LoadProxyFile(cfg.ProxiesFile)
	if err != nil {
		return nil, fmt.Errorf("load proxies: %w", err)
	}
	pool := fetch.IdentityPool{
		UserAgentOverride: cfg.UserAgent,
		ProxyOverride:     cfg.Proxy,
		Proxies:           proxies,
	}

	transport, stop := newTransport(cfg)
	fetcher := fetch.New(transport, pool, nil).
		WithLimiter(fetch.NewHostLimiter(cfg.RequestsPerSec, limiterBurst))

	log.Printf("🚀 Transport: %s | proxies in pool: %d | proxy override: %s",
		cfg.Transport, len(proxies), fetch.DescribeProxy(cfg.Proxy))

	return &Runtime{
		Scraper: workua.NewScraper(fetcher, nil),
		Config:  cfg,
		stop:    stop,
	}, nil
}

func newTransport(cfg *config.Config) (fetch.Transport, func() error) {
	if cfg.Transport == config.TransportHTTP {
		return &fetch.HTTPTransport{}, func() error { return nil }
	}
	pt := browser.NewPlaywrightTransport(cfg.IsHeadless(), cfg.ScreenshotDir)
	return pt, pt.Stop
}

// Close releases the transport. Safe to call more than once.
func (r *Runtime) Close() error {
	if r == nil || r.stop == nil {
		return nil
	}
	stop := r.stop
	r.stop = nil
	return stop()
}
