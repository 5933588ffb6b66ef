package app

import (
	"os"
	"path/filepath"
	"testing"

	"go-workua-scraper/internal/browser"
	"go-workua-scraper/internal/config"
	"go-workua-scraper/internal/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_HTTPTransport(t *testing.T) {
	dir := t.TempDir()
	proxies := filepath.Join(dir, "proxies.txt")
	require.NoError(t, os.WriteFile(proxies, []byte("# pool\nhttp://10.0.0.1:8080\n\nhttp://10.0.0.2:8080\n"), 0644))

	rt, err := New(&config.Config{Transport: config.TransportHTTP, ProxiesFile: proxies, RequestsPerSec: 1})
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.Scraper)
	assert.Equal(t, "Work.ua", rt.Scraper.Name())
	assert.NoError(t, rt.Close())
	assert.NoError(t, rt.Close())
}

func TestNew_MissingProxyFileIsFine(t *testing.T) {
	rt, err := New(&config.Config{
		Transport:   config.TransportHTTP,
		ProxiesFile: filepath.Join(t.TempDir(), "none.txt"),
	})
	require.NoError(t, err)
	assert.NotNil(t, rt.Scraper)
}

func TestNewTransport(t *testing.T) {
	tr, _ := newTransport(&config.Config{Transport: config.TransportHTTP})
	assert.IsType(t, &fetch.HTTPTransport{}, tr)

	tr, stop := newTransport(&config.Config{Transport: config.TransportBrowser, ScreenshotDir: "shots"})
	pt, ok := tr.(*browser.PlaywrightTransport)
	require.True(t, ok)
	assert.True(t, pt.Headless)
	assert.Equal(t, "shots", pt.ScreenshotDir)
	assert.NoError(t, stop())
}
