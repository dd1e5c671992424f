package indicator

import (
	"errors"

	"FundSentinel/internal/session"
)

// ErrRatioUnavailable means the expected-volume denominator is not positive:
// before the open, or no average daily volume configured.
var ErrRatioUnavailable = errors.New("volume ratio unavailable")

// VolumeRatio approximates breakout strength from cumulative session volume.
// Expected volume so far is the average daily volume prorated by elapsed
// session minutes; the ratio is observed over expected. This is an explicit
// approximation — there is no per-minute history behind it.
func VolumeRatio(cumVolume, avgDailyVolume float64, elapsedMinutes int) (float64, error) {
	if avgDailyVolume <= 0 || elapsedMinutes <= 0 {
		return 0, ErrRatioUnavailable
	}
	if elapsedMinutes > session.TotalMinutes {
		elapsedMinutes = session.TotalMinutes
	}
	expected := avgDailyVolume * float64(elapsedMinutes) / float64(session.TotalMinutes)
	if expected <= 0 || cumVolume < 0 {
		return 0, ErrRatioUnavailable
	}
	return cumVolume / expected, nil
}
