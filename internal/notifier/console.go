package notifier

import (
	"context"
	"log"
)

// ConsoleNotifier logs alerts instead of pushing them. Used when no push key
// is configured, so a dry run still shows what would have been sent.
type ConsoleNotifier struct{}

// Send logs the alert.
func (ConsoleNotifier) Send(title, desp string) error {
	log.Printf("[INFO] ALERT %s\n%s", title, desp)
	return nil
}

// SendWithRetry logs the alert; there is nothing to retry.
func (c ConsoleNotifier) SendWithRetry(_ context.Context, title, desp string, _ int) error {
	return c.Send(title, desp)
}
