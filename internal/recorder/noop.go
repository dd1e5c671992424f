package recorder

import "FundSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(_ *SignalRecord) error             { return nil }
func (n *NoopRecorder) RecordNav(_ *model.NavRecord) error             { return nil }
func (n *NoopRecorder) SignalsByDate(_ string) ([]SignalRecord, error) { return nil, nil }
func (n *NoopRecorder) NavByDate(_ string) ([]model.NavRecord, error)  { return nil, nil }
func (n *NoopRecorder) Close() error                                   { return nil }
