package indicator

import "math"

// Movement below these thresholds is treated as neutral: the instrument's
// own change when essentially flat, and a proxy basket drifting within
// noise.
const (
	flatThreshold  = 1e-6
	noiseThreshold = 0.05
)

// DirectionAgrees cross-checks an instrument's percent change against the
// mean change of its proxy basket. Direction agrees when the signs match,
// when either side is negligible, or vacuously when no proxy data exists.
// The mean is returned for reporting; ok is false when proxyPcts is empty.
func DirectionAgrees(pct float64, proxyPcts []float64) (agree bool, mean float64, ok bool) {
	if len(proxyPcts) == 0 {
		return true, 0, false
	}
	sum := 0.0
	for _, p := range proxyPcts {
		sum += p
	}
	mean = sum / float64(len(proxyPcts))

	switch {
	case math.Abs(pct) < flatThreshold:
		agree = true
	case math.Abs(mean) < noiseThreshold:
		agree = true
	default:
		agree = (pct > 0) == (mean > 0)
	}
	return agree, mean, true
}
