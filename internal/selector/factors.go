package selector

import (
	"regexp"
	"strconv"
	"strings"
)

// Scoring is out of 100: manager 20, product 20, history 30, outlook 30.

// scoreManager scores tenure. Missing data gets a neutral-low score rather
// than zero, so an unannotated fund is not buried.
func scoreManager(years *float64) float64 {
	if years == nil {
		return 8.0
	}
	switch {
	case *years < 1:
		return 10.0
	case *years < 3:
		return 14.0
	case *years < 5:
		return 17.0
	default:
		return 20.0
	}
}

// scoreProduct scores scale (12) and total fee (8). The 5-50亿 scale band is
// the sweet spot: big enough to survive, small enough to maneuver.
func scoreProduct(scaleBil, feeTotal *float64) float64 {
	scale := 6.0
	if scaleBil != nil {
		s := *scaleBil
		switch {
		case s >= 5 && s <= 50:
			scale = 12.0
		case s >= 2 && s < 5:
			scale = 9.0
		case s > 50 && s <= 100:
			scale = 8.0
		default:
			scale = 4.0
		}
	}

	fee := 5.0
	if feeTotal != nil {
		switch {
		case *feeTotal <= 1.0:
			fee = 8.0
		case *feeTotal <= 1.5:
			fee = 6.0
		default:
			fee = 3.0
		}
	}
	return scale + fee
}

// scoreHistory scores trailing returns: 1m and 3m weigh most, 6m and 1y
// taper off. A return of +20% earns the full bucket; losses earn 20% and
// missing data 40% of it.
func scoreHistory(m1, m3, m6, y1 *float64) float64 {
	bucket := func(val *float64, full float64) float64 {
		if val == nil {
			return 0.4 * full
		}
		if *val <= 0 {
			return 0.2 * full
		}
		if sc := full * (*val / 20.0); sc < full {
			return sc
		}
		return full
	}
	return bucket(m1, 10.0) + bucket(m3, 10.0) + bucket(m6, 6.0) + bucket(y1, 4.0)
}

// scoreOutlook approximates sector momentum from short-window strength:
// 1w (12) and 1m (14) fill at +15%, plus a ±2 intraday-heat adjustment.
func scoreOutlook(w1, m1, day *float64) float64 {
	bucket := func(val *float64, full float64) float64 {
		if val == nil {
			return 0.4 * full
		}
		sc := full * (*val / 15.0)
		if sc < 0 {
			return 0.0
		}
		if sc > full {
			return full
		}
		return sc
	}

	sc := bucket(w1, 12.0) + bucket(m1, 14.0)
	if day == nil {
		sc += 0.8
	} else {
		heat := *day / 2.0
		if heat > 2.0 {
			heat = 2.0
		} else if heat < -2.0 {
			heat = -2.0
		}
		sc += heat
	}
	return sc
}

var scaleNumRe = regexp.MustCompile(`[\d.]+`)

// parseScaleBil converts a provider scale string like "10.23亿" or
// "1.2万亿" into 亿元. Returns nil when nothing numeric is present.
func parseScaleBil(raw string) *float64 {
	m := scaleNumRe.FindString(raw)
	if m == "" {
		return nil
	}
	val, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	if strings.Contains(raw, "万亿") {
		val *= 1e4
	}
	return &val
}
