package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBody caps how much of a page is read.
const maxBody = 8 << 20

// HTTPTransport loads pages with a plain HTTP client. It suits pages that
// render server-side and hosts without a browser installed.
type HTTPTransport struct {
	Timeout time.Duration
}

func (t *HTTPTransport) Open(_ context.Context, id Identity) (Session, error) {
	tr := &http.Transport{
		TLSHandshakeTimeout: 15 * time.Second,
	}
	if id.Proxy != "" {
		pu, err := url.Parse(id.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %s: %w", MaskProxy(id.Proxy), err)
		}
		tr.Proxy = http.ProxyURL(pu)
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpSession{
		hc: &http.Client{Timeout: timeout, Transport: tr},
		tr: tr,
		ua: id.UserAgent,
	}, nil
}

type httpSession struct {
	hc *http.Client
	tr *http.Transport
	ua string
}

func (s *httpSession) Load(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9,en;q=0.8")

	res, err := s.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("get page: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("page status %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(b), nil
}

func (s *httpSession) Close() error {
	s.tr.CloseIdleConnections()
	return nil
}
