// Package engine owns per-pass signal evaluation: data-quality guards,
// metric derivation, and the confirmation/cooldown/daily-dedup state
// machine. Each invocation is one stateless batch pass over the watchlist.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"FundSentinel/internal/collector"
	"FundSentinel/internal/indicator"
	"FundSentinel/internal/model"
	"FundSentinel/internal/session"
)

// PctSource supplies day percent changes for direction-check proxies.
type PctSource interface {
	FetchPct(ctx context.Context, code string) (float64, error)
}

// Config carries the evaluation parameters shared by all instruments.
type Config struct {
	Instruments   []model.Instrument
	FreshCeiling  time.Duration // system-wide staleness ceiling
	VolMultiplier float64       // volume-ratio breakout threshold
	IntradayOnly  bool          // no-op outside the trading gate
}

// Engine evaluates the watchlist against persisted state.
type Engine struct {
	cfg       Config
	estimates collector.Source // open-end fund valuation estimates
	quotes    collector.Source // exchange quotes
	proxies   PctSource
	clock     Clock
}

// New creates an Engine. estimates serves FUND instruments, quotes serves
// ETF instruments, proxies serves direction cross-checks.
func New(cfg Config, estimates, quotes collector.Source, proxies PctSource, clock Clock) *Engine {
	return &Engine{cfg: cfg, estimates: estimates, quotes: quotes, proxies: proxies, clock: clock}
}

// RunOnce performs one full pass: every watched instrument is fetched,
// guarded, measured, and stepped through the state machine. The state is
// mutated in place; the caller persists it afterwards. Fetch failures never
// abort the batch.
func (e *Engine) RunOnce(ctx context.Context, state *model.EngineState) []model.Hit {
	now := e.clock.Now()
	// The date boundary is read once per pass so all instruments share it,
	// even if the pass straddles midnight.
	today := e.clock.Today()
	yesterday := session.Today(now.Add(-24 * time.Hour))

	state.PruneFiredDates(today, yesterday)
	if state.LastPassDate != "" && state.LastPassDate != today {
		log.Printf("[INFO] day rollover: %s -> %s", state.LastPassDate, today)
	}
	state.LastPassDate = today

	if e.cfg.IntradayOnly && !session.WithinTradingTime(now) {
		log.Printf("[INFO] outside trading hours, no signals evaluated")
		return nil
	}

	var hits []model.Hit
	for _, inst := range e.cfg.Instruments {
		if hit, ok := e.evaluate(ctx, inst, state, now, today); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

func (e *Engine) evaluate(ctx context.Context, inst model.Instrument, state *model.EngineState, now time.Time, today string) (model.Hit, bool) {
	st := state.StateFor(inst.Code)

	src := e.quotes
	if inst.Kind == model.KindFund {
		src = e.estimates
	}
	snap, err := src.Fetch(ctx, inst)
	if err != nil {
		// A transient fetch failure must not erase confirmation progress.
		log.Printf("[WARN] %s: skipped: %v", inst.Code, err)
		return model.Hit{}, false
	}

	if derr := collector.CheckIdentity(inst, snap); derr != nil {
		// Wrong security behind the code: discard before any metric, and
		// leave state untouched like a fetch failure.
		log.Printf("[WARN] %s: snapshot discarded: %v", inst.Code, derr)
		return model.Hit{}, false
	}
	if derr := collector.CheckFreshness(inst, snap, now, e.cfg.FreshCeiling); derr != nil {
		// Known-stale data is a non-qualifying read.
		log.Printf("[WARN] %s: %v", inst.Code, derr)
		Advance(st, inst, false, now, today)
		return model.Hit{}, false
	}

	met, qualified, reasons := e.measure(ctx, inst, snap, now)

	switch decision := Advance(st, inst, qualified, now, today); decision {
	case DecisionCooldown:
		log.Printf("[INFO] %s: cooling down until %s", inst.Code, st.CooldownUntil.In(session.Shanghai).Format("15:04"))
	case DecisionConfirming:
		log.Printf("[INFO] %s: confirming (%d/%d)", inst.Code, st.ConfirmCount, inst.ConfirmRounds)
	case DecisionReset:
		log.Printf("[INFO] %s: no hit (retracement %+.2f%%, direction_ok=%v)", inst.Code, met.Retracement, met.DirectionOK)
	case DecisionSuppressed:
		log.Printf("[INFO] %s: already fired today, hit suppressed", inst.Code)
	case DecisionFired:
		name := snap.Name
		if name == "" {
			name = inst.Name
		}
		return model.Hit{
			ID:      uuid.NewString(),
			Code:    inst.Code,
			Name:    name,
			Kind:    inst.Kind,
			Metrics: met,
			Price:   snap.Price,
			Reasons: reasons,
			At:      now,
		}, true
	}
	return model.Hit{}, false
}

// measure derives the metrics for one snapshot and decides qualification.
// Funds qualify only through the retracement band plus direction agreement;
// quote instruments may alternatively qualify on an approximate volume
// breakout when configured.
func (e *Engine) measure(ctx context.Context, inst model.Instrument, snap *model.QuoteSnapshot, now time.Time) (model.Metrics, bool, []string) {
	met := model.Metrics{
		PctChange:  snap.Pct,
		ElapsedMin: session.MinutesSinceOpen(now),
	}

	if pct, degraded, err := indicator.Retracement(snap.Price, inst.ReferenceHigh, snap.High); err == nil {
		met.Retracement = pct
		met.DegradedRef = degraded
	} else {
		// Fund estimates carry no session high; the provider's day change
		// is the weakest but only available anchor.
		met.Retracement = snap.Pct
		met.DegradedRef = true
	}
	bandOK := inst.Band.Contains(met.Retracement)

	met.DirectionOK = true
	if len(inst.Proxies) > 0 && e.proxies != nil {
		var pcts []float64
		for _, code := range inst.Proxies {
			pct, err := e.proxies.FetchPct(ctx, code)
			if err != nil {
				log.Printf("[WARN] %s: proxy %s unavailable: %v", inst.Code, code, err)
				continue
			}
			pcts = append(pcts, pct)
		}
		met.DirectionOK, met.ProxyPct, met.HasProxy = indicator.DirectionAgrees(snap.Pct, pcts)
	}

	if inst.Kind == model.KindETF {
		if ratio, err := indicator.VolumeRatio(snap.Volume, inst.AvgDailyVolume, met.ElapsedMin); err == nil {
			met.VolumeRatio = ratio
			met.HasVolume = true
			met.VolBreakout = ratio > e.cfg.VolMultiplier
		}
	}

	var reasons []string
	if bandOK {
		reasons = append(reasons, fmt.Sprintf("回撤%+.2f%% ∈ [%.1f%%, %.1f%%]", met.Retracement, inst.Band.Lower, inst.Band.Upper))
	}
	if met.HasProxy && met.DirectionOK {
		reasons = append(reasons, fmt.Sprintf("代理ETF均%+.2f%%同向", met.ProxyPct))
	}

	qualified := bandOK && met.DirectionOK
	if inst.Kind == model.KindETF && inst.VolumeBreakout && met.VolBreakout {
		if !qualified {
			qualified = true
			reasons = nil
		}
		reasons = append(reasons, fmt.Sprintf("放量≈%.1fx > %.1fx(近似)", met.VolumeRatio, e.cfg.VolMultiplier))
	}
	return met, qualified, reasons
}
