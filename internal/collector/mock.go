package collector

import (
	"context"

	"FundSentinel/internal/model"
)

// MockSource returns controllable fixed snapshots for development and tests.
type MockSource struct {
	Snapshots map[string]*model.QuoteSnapshot
	Errs      map[string]error
	Fetched   []string // codes in fetch order
}

// NewMockSource creates an empty mock.
func NewMockSource() *MockSource {
	return &MockSource{
		Snapshots: make(map[string]*model.QuoteSnapshot),
		Errs:      make(map[string]error),
	}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context, inst model.Instrument) (*model.QuoteSnapshot, error) {
	m.Fetched = append(m.Fetched, inst.Code)
	if err, ok := m.Errs[inst.Code]; ok {
		return nil, err
	}
	if snap, ok := m.Snapshots[inst.Code]; ok {
		cp := *snap
		return &cp, nil
	}
	return nil, Unavailable(inst.Code, nil)
}

// FetchPct returns the percent change of a registered snapshot.
func (m *MockSource) FetchPct(ctx context.Context, code string) (float64, error) {
	snap, err := m.Fetch(ctx, model.Instrument{Code: code, Kind: model.KindETF})
	if err != nil {
		return 0, err
	}
	return snap.Pct, nil
}

// Set registers a snapshot for a code, clearing any configured error.
func (m *MockSource) Set(code string, snap *model.QuoteSnapshot) {
	snap.Code = code
	m.Snapshots[code] = snap
	delete(m.Errs, code)
}

// Fail registers an error for a code, clearing any configured snapshot.
func (m *MockSource) Fail(code string, err error) {
	m.Errs[code] = err
	delete(m.Snapshots, code)
}
