package collector

import (
	"errors"
	"fmt"
	"time"
)

// FailKind classifies why a read produced no usable snapshot.
type FailKind string

const (
	// FailUnavailable: transport or provider failure. The instrument is
	// skipped this pass with no state mutation.
	FailUnavailable FailKind = "unavailable"
	// FailIdentity: the provider returned data for the wrong security.
	// Treated identically to unavailable.
	FailIdentity FailKind = "identity_mismatch"
	// FailStale: data older than the freshness limit. Counts as a
	// non-qualifying read for confirmation purposes.
	FailStale FailKind = "stale"
)

// DataError is the typed outcome of a failed or rejected quote read.
type DataError struct {
	Kind FailKind
	Code string
	Msg  string
	Err  error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Code, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Code, e.Kind, e.Msg)
}

func (e *DataError) Unwrap() error { return e.Err }

// Unavailable wraps a transport/provider failure.
func Unavailable(code string, err error) *DataError {
	return &DataError{Kind: FailUnavailable, Code: code, Msg: "fetch failed", Err: err}
}

// IdentityMismatch flags a snapshot whose name failed the identity guard.
func IdentityMismatch(code, gotName string) *DataError {
	return &DataError{Kind: FailIdentity, Code: code, Msg: fmt.Sprintf("unexpected name %q", gotName)}
}

// Stale flags a snapshot older than the freshness limit.
func Stale(code string, age, limit time.Duration) *DataError {
	return &DataError{Kind: FailStale, Code: code,
		Msg: fmt.Sprintf("age %s exceeds limit %s", age.Round(time.Second), limit)}
}

// IsStale reports whether err is a staleness rejection.
func IsStale(err error) bool {
	var de *DataError
	return errors.As(err, &de) && de.Kind == FailStale
}
