package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetracement_SignConvention(t *testing.T) {
	// 0.698 against a 0.727 reference high is roughly a -4% retracement.
	pct, degraded, err := Retracement(0.698, 0.727, 0.716)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.InDelta(t, -3.989, pct, 0.01)
}

func TestRetracement_SessionHighFallback(t *testing.T) {
	pct, degraded, err := Retracement(0.698, 0, 0.716)
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.InDelta(t, (0.698/0.716-1)*100, pct, 1e-9)
}

func TestRetracement_NoAnchor(t *testing.T) {
	_, _, err := Retracement(0.698, 0, 0)
	assert.ErrorIs(t, err, ErrNoAnchor)

	_, _, err = Retracement(0, 0.727, 0)
	assert.ErrorIs(t, err, ErrNoAnchor)
}

func TestPercentChange(t *testing.T) {
	pct, err := PercentChange(0.698, 0.714)
	require.NoError(t, err)
	assert.InDelta(t, -2.2409, pct, 0.001)

	_, err = PercentChange(0.698, 0)
	assert.ErrorIs(t, err, ErrNoAnchor)
}

func TestVolumeRatio(t *testing.T) {
	// 1M average daily volume, 60 of 240 minutes elapsed: 250k expected.
	// 500k observed is a 2.0x ratio.
	ratio, err := VolumeRatio(500_000, 1_000_000, 60)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ratio, 1e-9)
}

func TestVolumeRatio_CapsAfterClose(t *testing.T) {
	ratio, err := VolumeRatio(1_200_000, 1_000_000, 400)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, ratio, 1e-9)
}

func TestVolumeRatio_Unavailable(t *testing.T) {
	_, err := VolumeRatio(500_000, 0, 60)
	assert.ErrorIs(t, err, ErrRatioUnavailable)

	_, err = VolumeRatio(500_000, 1_000_000, 0)
	assert.ErrorIs(t, err, ErrRatioUnavailable)
}

func TestDirectionAgrees(t *testing.T) {
	tests := []struct {
		name      string
		pct       float64
		proxies   []float64
		wantAgree bool
		wantOK    bool
	}{
		{"both down", -2.5, []float64{-1.2, -0.8}, true, true},
		{"both up", 1.5, []float64{0.9}, true, true},
		{"opposite signs", -2.5, []float64{1.2}, false, true},
		{"proxy within noise", -2.5, []float64{0.04}, true, true},
		{"instrument flat", 0, []float64{1.5}, true, true},
		{"no proxies is vacuous", -2.5, nil, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agree, _, ok := DirectionAgrees(tt.pct, tt.proxies)
			assert.Equal(t, tt.wantAgree, agree)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDirectionAgrees_MeanAveragesBasket(t *testing.T) {
	_, mean, ok := DirectionAgrees(-2.0, []float64{-1.0, -3.0})
	require.True(t, ok)
	assert.InDelta(t, -2.0, mean, 1e-9)
}
