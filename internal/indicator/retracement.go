// Package indicator turns one quote snapshot into the derived metrics the
// signal engine evaluates.
package indicator

import "errors"

// ErrNoAnchor means no usable reference price exists for the computation.
var ErrNoAnchor = errors.New("no usable reference anchor")

// Retracement returns the signed percent distance of price from the
// configured reference high. When no reference high is configured it falls
// back to the session high — degraded precision, flagged via the second
// return so callers can surface it.
func Retracement(price, referenceHigh, sessionHigh float64) (pct float64, degraded bool, err error) {
	if price <= 0 {
		return 0, false, ErrNoAnchor
	}
	switch {
	case referenceHigh > 0:
		return (price/referenceHigh - 1.0) * 100.0, false, nil
	case sessionHigh > 0:
		return (price/sessionHigh - 1.0) * 100.0, true, nil
	default:
		return 0, false, ErrNoAnchor
	}
}

// PercentChange computes the day change against a reference price, for
// quote sources that do not report it directly.
func PercentChange(price, refPrice float64) (float64, error) {
	if refPrice <= 0 {
		return 0, ErrNoAnchor
	}
	return (price - refPrice) / refPrice * 100.0, nil
}
