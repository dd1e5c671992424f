package model

import "time"

// Kind distinguishes open-end funds (valued once daily, estimated intraday)
// from exchange-traded funds (quoted continuously).
type Kind string

const (
	KindFund Kind = "FUND"
	KindETF  Kind = "ETF"
)

// Band is a retracement band relative to a reference high, in percent.
// Both bounds are negative for a buy zone, e.g. [-4.0, -2.0].
type Band struct {
	Lower float64
	Upper float64
}

// Contains reports whether pct falls inside the band, bounds included.
// The bounds are normalized so a reversed configuration still works.
func (b Band) Contains(pct float64) bool {
	lo, hi := b.Lower, b.Upper
	if lo > hi {
		lo, hi = hi, lo
	}
	return pct >= lo && pct <= hi
}

// Instrument is one watched security. Loaded once from config and immutable
// for the lifetime of the process.
type Instrument struct {
	Code           string
	Kind           Kind
	Name           string // display name, informational only
	ExpectName     string // identity guard: snapshot name must contain this
	ReferenceHigh  float64
	Band           Band
	FreshnessLimit time.Duration
	Proxies        []string // ETF codes used for direction cross-check
	ConfirmRounds  int
	Cooldown       time.Duration
	AvgDailyVolume float64 // hands; enables the volume-ratio approximation
	VolumeBreakout bool    // quote instruments may qualify on volume alone
}
