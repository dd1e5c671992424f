package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundSentinel/internal/collector"
	"FundSentinel/internal/model"
	"FundSentinel/internal/session"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Today() string  { return session.Today(c.now) }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// 2026-03-04 is a Wednesday; 10:30 is mid-session.
func midSession() time.Time {
	return time.Date(2026, 3, 4, 10, 30, 0, 0, session.Shanghai)
}

func fundInst() model.Instrument {
	return model.Instrument{
		Code:           "022364",
		Kind:           model.KindFund,
		ExpectName:     "永赢科技",
		Band:           model.Band{Lower: -4.0, Upper: -2.0},
		FreshnessLimit: 25 * time.Minute,
		ConfirmRounds:  2,
		Cooldown:       60 * time.Minute,
	}
}

func etfInst() model.Instrument {
	return model.Instrument{
		Code:           "512810",
		Kind:           model.KindETF,
		ReferenceHigh:  0.727,
		Band:           model.Band{Lower: -8.0, Upper: -5.0},
		ConfirmRounds:  1,
		Cooldown:       30 * time.Minute,
		AvgDailyVolume: 1_000_000,
		VolumeBreakout: true,
	}
}

func newTestEngine(instruments []model.Instrument, clock Clock) (*Engine, *collector.MockSource, *collector.MockSource) {
	estimates := collector.NewMockSource()
	quotes := collector.NewMockSource()
	eng := New(Config{
		Instruments:   instruments,
		FreshCeiling:  25 * time.Minute,
		VolMultiplier: 1.8,
		IntradayOnly:  true,
	}, estimates, quotes, quotes, clock)
	return eng, estimates, quotes
}

func fundSnap(pct float64, ts time.Time) *model.QuoteSnapshot {
	return &model.QuoteSnapshot{
		Name:      "永赢科技智选A",
		Price:     1.1986,
		RefPrice:  1.2340,
		Pct:       pct,
		Timestamp: ts,
		Source:    "eastmoney_estimate",
	}
}

func TestRunOnce_FundEndToEnd(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()

	// First qualifying pass: confirmation only, no hit.
	estimates.Set("022364", fundSnap(-2.87, clock.now))
	hits := eng.RunOnce(context.Background(), state)
	assert.Empty(t, hits)
	assert.Equal(t, 1, state.StateFor("022364").ConfirmCount)

	// Second qualifying pass in the same day: hit emitted, counter reset,
	// cooldown armed, date recorded.
	clock.advance(5 * time.Minute)
	estimates.Set("022364", fundSnap(-2.91, clock.now))
	hits = eng.RunOnce(context.Background(), state)
	require.Len(t, hits, 1)

	hit := hits[0]
	assert.Equal(t, "022364", hit.Code)
	assert.Equal(t, model.KindFund, hit.Kind)
	assert.NotEmpty(t, hit.ID)

	st := state.StateFor("022364")
	assert.Equal(t, 0, st.ConfirmCount)
	assert.True(t, st.FiredOn("2026-03-04"))
	assert.True(t, st.CooldownUntil.Equal(clock.now.Add(60*time.Minute)))
}

func TestRunOnce_AtMostOneHitPerDay(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()

	var fired int
	// Many short-interval passes with an always-qualifying read; the
	// cooldown expires twice within the day.
	for i := 0; i < 40; i++ {
		estimates.Set("022364", fundSnap(-3.0, clock.now))
		fired += len(eng.RunOnce(context.Background(), state))
		clock.advance(10 * time.Minute)
		if !clock.now.Before(time.Date(2026, 3, 4, 15, 10, 0, 0, session.Shanghai)) {
			break
		}
	}
	assert.Equal(t, 1, fired)
}

func TestRunOnce_FetchFailureKeepsConfirmation(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()

	estimates.Set("022364", fundSnap(-2.87, clock.now))
	eng.RunOnce(context.Background(), state)
	require.Equal(t, 1, state.StateFor("022364").ConfirmCount)

	// A transient network blip must not erase confirmation progress.
	clock.advance(5 * time.Minute)
	estimates.Fail("022364", collector.Unavailable("022364", assert.AnError))
	hits := eng.RunOnce(context.Background(), state)
	assert.Empty(t, hits)
	assert.Equal(t, 1, state.StateFor("022364").ConfirmCount)

	clock.advance(5 * time.Minute)
	estimates.Set("022364", fundSnap(-2.91, clock.now))
	hits = eng.RunOnce(context.Background(), state)
	assert.Len(t, hits, 1)
}

func TestRunOnce_IdentityMismatchTouchesNothing(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()
	state.StateFor("022364").ConfirmCount = 1

	snap := fundSnap(-2.87, clock.now)
	snap.Name = "Some Other Fund"
	estimates.Set("022364", snap)

	hits := eng.RunOnce(context.Background(), state)
	assert.Empty(t, hits)
	assert.Equal(t, 1, state.StateFor("022364").ConfirmCount)
}

func TestRunOnce_StaleReadResetsConfirmation(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()
	state.StateFor("022364").ConfirmCount = 1

	estimates.Set("022364", fundSnap(-2.87, clock.now.Add(-40*time.Minute)))
	hits := eng.RunOnce(context.Background(), state)
	assert.Empty(t, hits)
	assert.Equal(t, 0, state.StateFor("022364").ConfirmCount)
}

func TestRunOnce_DirectionVetoResets(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	inst := fundInst()
	inst.Proxies = []string{"sz159995"}
	eng, estimates, quotes := newTestEngine([]model.Instrument{inst}, clock)
	state := model.NewEngineState()
	state.StateFor("022364").ConfirmCount = 1

	estimates.Set("022364", fundSnap(-2.87, clock.now))
	// Proxy strongly green while the fund estimate is red: disagree.
	quotes.Set("sz159995", &model.QuoteSnapshot{Name: "芯片ETF", Price: 1.0, RefPrice: 0.98, Pct: 2.04, Timestamp: clock.now})

	hits := eng.RunOnce(context.Background(), state)
	assert.Empty(t, hits)
	assert.Equal(t, 0, state.StateFor("022364").ConfirmCount)
}

func TestRunOnce_ProxyUnreachableIsNeutral(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	inst := fundInst()
	inst.Proxies = []string{"sz159995"}
	eng, estimates, quotes := newTestEngine([]model.Instrument{inst}, clock)
	state := model.NewEngineState()

	estimates.Set("022364", fundSnap(-2.87, clock.now))
	quotes.Fail("sz159995", collector.Unavailable("sz159995", assert.AnError))

	eng.RunOnce(context.Background(), state)
	// With no reachable proxy the cross-check is vacuously true.
	assert.Equal(t, 1, state.StateFor("022364").ConfirmCount)
}

func TestRunOnce_ETFRetracementPath(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, _, quotes := newTestEngine([]model.Instrument{etfInst()}, clock)
	state := model.NewEngineState()

	// 0.698 vs reference high 0.727 is ~-4%: outside the [-8,-5] band, and
	// volume exactly on pace. No hit.
	quotes.Set("512810", &model.QuoteSnapshot{
		Name: "国防军工", Price: 0.698, RefPrice: 0.714, Pct: -2.24,
		High: 0.716, Volume: 250_000, Timestamp: clock.now,
	})
	assert.Empty(t, eng.RunOnce(context.Background(), state))

	// 0.69 is ~-5.1%: inside the band. Single confirmation round fires.
	quotes.Set("512810", &model.QuoteSnapshot{
		Name: "国防军工", Price: 0.690, RefPrice: 0.714, Pct: -3.36,
		High: 0.716, Volume: 250_000, Timestamp: clock.now,
	})
	hits := eng.RunOnce(context.Background(), state)
	require.Len(t, hits, 1)
	assert.InDelta(t, -5.089, hits[0].Metrics.Retracement, 0.01)
}

func TestRunOnce_ETFVolumeBreakoutPath(t *testing.T) {
	clock := &fakeClock{now: midSession()} // 60 session minutes elapsed
	eng, _, quotes := newTestEngine([]model.Instrument{etfInst()}, clock)
	state := model.NewEngineState()

	// Price well outside the band but volume at 2.0x expectation: the
	// volume path qualifies on its own for quote instruments.
	quotes.Set("512810", &model.QuoteSnapshot{
		Name: "国防军工", Price: 0.720, RefPrice: 0.714, Pct: 0.84,
		High: 0.722, Volume: 500_000, Timestamp: clock.now,
	})
	hits := eng.RunOnce(context.Background(), state)
	require.Len(t, hits, 1)
	assert.True(t, hits[0].Metrics.VolBreakout)
	assert.InDelta(t, 2.0, hits[0].Metrics.VolumeRatio, 1e-9)
}

func TestRunOnce_FundVolumeNeverBypassesBand(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()

	// A fund estimate outside the band never qualifies, whatever volume
	// fields a snapshot might carry.
	snap := fundSnap(-0.5, clock.now)
	snap.Volume = 10_000_000
	estimates.Set("022364", snap)

	eng.RunOnce(context.Background(), state)
	assert.Equal(t, 0, state.StateFor("022364").ConfirmCount)
}

func TestRunOnce_OutsideTradingHours(t *testing.T) {
	night := time.Date(2026, 3, 4, 20, 0, 0, 0, session.Shanghai)
	clock := &fakeClock{now: night}
	eng, estimates, _ := newTestEngine([]model.Instrument{fundInst()}, clock)
	state := model.NewEngineState()
	estimates.Set("022364", fundSnap(-2.87, clock.now))

	hits := eng.RunOnce(context.Background(), state)
	assert.Empty(t, hits)
	// Nothing was even fetched.
	assert.Empty(t, estimates.Fetched)
	assert.Equal(t, "2026-03-04", state.LastPassDate)
}

func TestRunOnce_OneFailingInstrumentDoesNotAbortBatch(t *testing.T) {
	clock := &fakeClock{now: midSession()}
	eng, estimates, quotes := newTestEngine([]model.Instrument{fundInst(), etfInst()}, clock)
	state := model.NewEngineState()

	estimates.Fail("022364", collector.Unavailable("022364", assert.AnError))
	quotes.Set("512810", &model.QuoteSnapshot{
		Name: "国防军工", Price: 0.690, RefPrice: 0.714, Pct: -3.36,
		High: 0.716, Volume: 250_000, Timestamp: clock.now,
	})

	hits := eng.RunOnce(context.Background(), state)
	require.Len(t, hits, 1)
	assert.Equal(t, "512810", hits[0].Code)
}
