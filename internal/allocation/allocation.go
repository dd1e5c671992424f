// Package allocation sizes the buy suggestion attached to each signal.
package allocation

import (
	"math"

	"FundSentinel/internal/model"
)

// Policy describes how the attack budget is split across the hits of a
// single pass. Fund hits divide one shared tranche equally; each quote
// instrument gets its own fixed slice.
type Policy struct {
	TotalAssets    float64 // total account value, CNY
	AttackFraction float64 // share of assets deployed per batch
	ETFSlice       float64 // per-ETF share of assets
}

// Assign fills SuggestedAmount on every hit, in place. Amounts are rounded
// to whole yuan. With a non-positive budget the hits pass through unsized.
func (p Policy) Assign(hits []model.Hit) {
	if p.TotalAssets <= 0 || p.AttackFraction <= 0 {
		return
	}

	var funds int
	for _, h := range hits {
		if h.Kind == model.KindFund {
			funds++
		}
	}

	fundShare := 0.0
	if funds > 0 {
		fundShare = p.TotalAssets * p.AttackFraction / float64(funds)
	}
	etfShare := p.TotalAssets * p.AttackFraction * p.ETFSlice

	for i := range hits {
		switch hits[i].Kind {
		case model.KindFund:
			hits[i].SuggestedAmount = math.Round(fundShare)
		case model.KindETF:
			hits[i].SuggestedAmount = math.Round(etfShare)
		}
	}
}
