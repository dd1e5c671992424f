package notifier

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Notifier pushes an alert somewhere a human will see it. Delivery is
// best-effort: callers log failures and move on.
type Notifier interface {
	Send(title, desp string) error
	SendWithRetry(ctx context.Context, title, desp string, maxRetries int) error
}

// ServerChanNotifier sends messages via the ServerChan Turbo push API.
type ServerChanNotifier struct {
	SendKey string
	Client  *http.Client
}

// NewServerChanNotifier creates a notifier with optional proxy support.
func NewServerChanNotifier(sendKey, proxyURL string) *ServerChanNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &ServerChanNotifier{
		SendKey: sendKey,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

// Send pushes a title and markdown body to the configured channel.
func (s *ServerChanNotifier) Send(title, desp string) error {
	apiURL := fmt.Sprintf("https://sctapi.ftqq.com/%s.send", s.SendKey)
	form := url.Values{
		"title": {title},
		"desp":  {desp},
	}
	resp, err := s.Client.Post(apiURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("serverchan API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (s *ServerChanNotifier) SendWithRetry(ctx context.Context, title, desp string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := s.Send(title, desp); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] ServerChan send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
