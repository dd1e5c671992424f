package engine

import (
	"time"

	"FundSentinel/internal/session"
)

// Clock supplies the pass timestamp and calendar date. Injected rather than
// read from the OS so cross-midnight and timezone behavior is testable.
type Clock interface {
	Now() time.Time
	Today() string
}

// SystemClock reads the OS clock; dates are exchange-local.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
func (SystemClock) Today() string  { return session.Today(time.Now()) }
