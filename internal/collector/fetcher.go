package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"FundSentinel/internal/model"
)

// Source supplies a point-in-time snapshot for one instrument. Any failed or
// rejected read surfaces as a *DataError so the engine can decide between
// skip, reset, and fatal.
type Source interface {
	Fetch(ctx context.Context, inst model.Instrument) (*model.QuoteSnapshot, error)
	Name() string
}

const (
	requestTimeout = 10 * time.Second
	fetchAttempts  = 3

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"
)

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   requestTimeout,
		Transport: transport,
	}
}

// getWithRetry performs a GET with limiter pacing, a bounded retry budget and
// linear backoff between attempts.
func getWithRetry(ctx context.Context, client *http.Client, limiter *rate.Limiter, rawURL, referer string) ([]byte, error) {
	var lastErr error
	for i := 0; i < fetchAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i) * time.Second):
			}
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "*/*")
		if referer != "" {
			req.Header.Set("Referer", referer)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", fetchAttempts, lastErr)
}

// parseFloat tolerates provider number formatting (thousands separators,
// stray whitespace). Returns def when the value does not parse.
func parseFloat(s string, def float64) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// optFloat parses an optional percent-or-number string, nil when absent.
func optFloat(s string) *float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}
