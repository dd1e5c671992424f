package engine

import (
	"time"

	"FundSentinel/internal/model"
)

// Decision classifies what one evaluated read did to an instrument's state.
type Decision int

const (
	// DecisionCooldown: the cooldown window is still open, nothing changed.
	DecisionCooldown Decision = iota
	// DecisionReset: a non-qualifying read cleared the confirmation counter.
	DecisionReset
	// DecisionConfirming: a qualifying read advanced the counter but has not
	// reached the threshold yet.
	DecisionConfirming
	// DecisionFired: the threshold was reached and a hit should be emitted.
	DecisionFired
	// DecisionSuppressed: the threshold was reached but a hit already fired
	// today; the counter still resets and the cooldown still advances, so
	// the same day cannot re-confirm in a loop.
	DecisionSuppressed
)

func (d Decision) String() string {
	switch d {
	case DecisionCooldown:
		return "cooldown"
	case DecisionReset:
		return "reset"
	case DecisionConfirming:
		return "confirming"
	case DecisionFired:
		return "fired"
	case DecisionSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Advance applies one read outcome to an instrument's durable state. It is
// the only place SignalState mutates. The caller supplies today's date so a
// whole pass shares one date even across midnight.
func Advance(st *model.SignalState, inst model.Instrument, qualified bool, now time.Time, today string) Decision {
	if now.Before(st.CooldownUntil) {
		return DecisionCooldown
	}

	if !qualified {
		st.ConfirmCount = 0
		return DecisionReset
	}

	rounds := inst.ConfirmRounds
	if rounds < 1 {
		rounds = 1
	}
	st.ConfirmCount++
	if st.ConfirmCount < rounds {
		return DecisionConfirming
	}

	st.ConfirmCount = 0
	st.AdvanceCooldown(now.Add(inst.Cooldown))
	if st.FiredOn(today) {
		return DecisionSuppressed
	}
	st.MarkFired(today)
	return DecisionFired
}
