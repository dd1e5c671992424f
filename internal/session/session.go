// Package session models the CN A-share trading calendar: two continuous
// windows per weekday with no holiday table. Holidays simply produce no
// fresh data, so the guards handle them.
package session

import "time"

// Shanghai is the exchange time zone (UTC+8).
var Shanghai = time.FixedZone("CST", 8*3600)

// Session windows in exchange-local minutes since midnight.
const (
	morningOpen    = 9*60 + 30
	morningClose   = 11*60 + 30
	afternoonOpen  = 13 * 60
	afternoonClose = 15 * 60

	// TotalMinutes is the full session length used by the volume-pace model.
	TotalMinutes = (morningClose - morningOpen) + (afternoonClose - afternoonOpen)
)

// The trigger gate is slightly wider than the strict session so estimates
// published just after the close still evaluate.
const (
	gateMorningOpen    = 9*60 + 20
	gateMorningClose   = 11*60 + 35
	gateAfternoonOpen  = 12*60 + 55
	gateAfternoonClose = 15*60 + 10
)

// WithinTradingTime reports whether t falls in the Mon-Fri trigger gate.
func WithinTradingTime(t time.Time) bool {
	lt := t.In(Shanghai)
	if wd := lt.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	hm := lt.Hour()*60 + lt.Minute()
	return (hm >= gateMorningOpen && hm <= gateMorningClose) ||
		(hm >= gateAfternoonOpen && hm <= gateAfternoonClose)
}

// MinutesSinceOpen returns elapsed strict-session minutes at t: 0 before the
// open, capped at TotalMinutes after the close, with the lunch break removed.
func MinutesSinceOpen(t time.Time) int {
	lt := t.In(Shanghai)
	hm := lt.Hour()*60 + lt.Minute()

	switch {
	case hm < morningOpen:
		return 0
	case hm <= morningClose:
		return hm - morningOpen
	case hm < afternoonOpen:
		return morningClose - morningOpen
	case hm < afternoonClose:
		return (morningClose - morningOpen) + (hm - afternoonOpen)
	default:
		return TotalMinutes
	}
}

// Today formats t's calendar date in exchange-local time.
func Today(t time.Time) string {
	return t.In(Shanghai).Format("2006-01-02")
}

// TimeOfDay formats a unix timestamp as exchange-local HH:MM.
func TimeOfDay(unix int64) string {
	return time.Unix(unix, 0).In(Shanghai).Format("15:04")
}
