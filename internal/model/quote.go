package model

import "time"

// QuoteSnapshot is one point-in-time read from a quote source. Created and
// discarded within a single evaluation.
type QuoteSnapshot struct {
	Code      string
	Name      string
	Price     float64 // last price, or estimated NAV for funds
	RefPrice  float64 // previous close, or previous official NAV
	Pct       float64 // day percent change; provider estimate for funds
	High      float64 // intraday high; zero for fund estimates
	Low       float64
	Volume    float64 // cumulative session volume in hands; zero for funds
	Turnover  float64 // cumulative turnover in yuan
	Timestamp time.Time
	Source    string
}

// Age returns how old the snapshot is relative to now.
func (s *QuoteSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.Timestamp)
}

// NavRecord is one archived official NAV (funds) or close (ETFs) row.
type NavRecord struct {
	Type   string // "FUND" or "ETF"
	Code   string
	Name   string
	Date   string // YYYY-MM-DD
	Value  float64
	Pct    float64
	HasPct bool
	Source string
}
