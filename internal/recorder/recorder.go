package recorder

import (
	"strings"

	"FundSentinel/internal/model"
)

// SignalRecord is one fired signal as stored in the audit trail. It carries
// the metrics that justified the hit so the daily review can reconstruct the
// decision without re-fetching anything.
type SignalRecord struct {
	ID              string
	Date            string // YYYY-MM-DD, session date
	At              int64  // unix seconds
	Code            string
	Name            string
	Kind            string
	Price           float64
	Retracement     float64
	PctChange       float64
	VolumeRatio     float64
	VolBreakout     bool
	ProxyPct        float64
	SuggestedAmount float64
	Reasons         string // joined with "；"
}

// FromHit flattens a hit into its stored form.
func FromHit(h model.Hit, date string) *SignalRecord {
	return &SignalRecord{
		ID:              h.ID,
		Date:            date,
		At:              h.At.Unix(),
		Code:            h.Code,
		Name:            h.Name,
		Kind:            string(h.Kind),
		Price:           h.Price,
		Retracement:     h.Metrics.Retracement,
		PctChange:       h.Metrics.PctChange,
		VolumeRatio:     h.Metrics.VolumeRatio,
		VolBreakout:     h.Metrics.VolBreakout,
		ProxyPct:        h.Metrics.ProxyPct,
		SuggestedAmount: h.SuggestedAmount,
		Reasons:         strings.Join(h.Reasons, "；"),
	}
}

// Recorder persists fired signals and official NAV history for analysis.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordNav(rec *model.NavRecord) error
	SignalsByDate(date string) ([]SignalRecord, error)
	NavByDate(date string) ([]model.NavRecord, error)
	Close() error
}
