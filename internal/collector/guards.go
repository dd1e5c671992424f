package collector

import (
	"strings"
	"time"

	"FundSentinel/internal/model"
)

// CheckIdentity rejects a snapshot whose name does not contain the
// instrument's expected substring. Defends against a provider returning data
// for the wrong code. No guard when no substring is configured.
func CheckIdentity(inst model.Instrument, snap *model.QuoteSnapshot) *DataError {
	if inst.ExpectName == "" {
		return nil
	}
	if !strings.Contains(snap.Name, inst.ExpectName) {
		return IdentityMismatch(inst.Code, snap.Name)
	}
	return nil
}

// CheckFreshness rejects a snapshot older than the lesser of the
// instrument's limit and the system-wide ceiling. A snapshot with a zero
// timestamp has unknown age and is always rejected when a limit applies.
func CheckFreshness(inst model.Instrument, snap *model.QuoteSnapshot, now time.Time, ceiling time.Duration) *DataError {
	limit := inst.FreshnessLimit
	if ceiling > 0 && (limit <= 0 || ceiling < limit) {
		limit = ceiling
	}
	if limit <= 0 {
		return nil
	}
	if snap.Timestamp.IsZero() {
		return Stale(inst.Code, limit+time.Hour, limit)
	}
	if age := snap.Age(now); age > limit {
		return Stale(inst.Code, age, limit)
	}
	return nil
}
