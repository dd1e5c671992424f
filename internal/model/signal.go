package model

import "time"

// Metrics holds the derived values one snapshot produces.
type Metrics struct {
	Retracement float64 // signed percent from the reference high
	DegradedRef bool    // reference high unavailable, weaker anchor used
	PctChange   float64
	VolumeRatio float64 // observed / expected-by-now; 0 when unavailable
	HasVolume   bool
	VolBreakout bool
	ProxyPct    float64 // mean percent change of reachable proxies
	HasProxy    bool
	DirectionOK bool
	ElapsedMin  int // minutes of session elapsed at evaluation time
}

// Hit is an actionable buy signal for one instrument.
type Hit struct {
	ID              string
	Code            string
	Name            string
	Kind            Kind
	Metrics         Metrics
	Price           float64
	SuggestedAmount float64
	Reasons         []string
	At              time.Time
}

// SignalState is the durable per-instrument state persisted between passes.
// Mutated only by the signal state machine.
type SignalState struct {
	ConfirmCount  int             `json:"confirm_count"`
	CooldownUntil time.Time       `json:"cooldown_until,omitempty"`
	FiredDates    map[string]bool `json:"fired_dates,omitempty"`
}

// FiredOn reports whether a hit was already emitted on the given date.
func (s *SignalState) FiredOn(date string) bool {
	return s.FiredDates[date]
}

// MarkFired records that a hit was emitted on the given date.
func (s *SignalState) MarkFired(date string) {
	if s.FiredDates == nil {
		s.FiredDates = make(map[string]bool)
	}
	s.FiredDates[date] = true
}

// AdvanceCooldown moves the cooldown expiry forward, never backward.
func (s *SignalState) AdvanceCooldown(until time.Time) {
	if until.After(s.CooldownUntil) {
		s.CooldownUntil = until
	}
}

// EngineState is the full persisted state: one SignalState per instrument
// plus the last fully-handled pass date, used to detect day rollover.
type EngineState struct {
	Instruments  map[string]*SignalState `json:"instruments"`
	LastPassDate string                  `json:"last_pass_date,omitempty"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// NewEngineState returns an empty cold-start state.
func NewEngineState() *EngineState {
	return &EngineState{Instruments: make(map[string]*SignalState)}
}

// StateFor returns the signal state for a code, creating it on first use.
func (e *EngineState) StateFor(code string) *SignalState {
	if e.Instruments == nil {
		e.Instruments = make(map[string]*SignalState)
	}
	st, ok := e.Instruments[code]
	if !ok {
		st = &SignalState{}
		e.Instruments[code] = st
	}
	return st
}

// PruneFiredDates drops fired-date entries not in keep. Only same-day dedup
// is semantically required; keeping a short tail bounds the state file.
func (e *EngineState) PruneFiredDates(keep ...string) {
	kept := make(map[string]bool, len(keep))
	for _, d := range keep {
		kept[d] = true
	}
	for _, st := range e.Instruments {
		for d := range st.FiredDates {
			if !kept[d] {
				delete(st.FiredDates, d)
			}
		}
	}
}
