package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundSentinel/internal/model"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 100000.0, cfg.Account.TotalAssets)
	assert.Equal(t, 0.10, cfg.Account.AttackFraction)
	assert.Equal(t, 0.035, cfg.Account.ETFSlice)
	assert.Equal(t, 1.8, cfg.Engine.VolMultiplier)
	assert.True(t, *cfg.Engine.IntradayOnly)
	assert.Len(t, cfg.Watchlist.Funds, 3)
	assert.Len(t, cfg.Watchlist.ETFs, 1)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
account:
  total_assets: 50000
engine:
  intraday_only: false
watchlist:
  funds:
    - code: "022364"
      expect_name: "永赢科技"
      band: [-4.0, -2.0]
      confirm_rounds: 3
`), 0644))

	t.Setenv("TOTAL_ASSETS", "200000")
	t.Setenv("SCTKEY", " key123 ")

	cfg, err := Load(path)
	require.NoError(t, err)
	// Env wins over YAML.
	assert.Equal(t, 200000.0, cfg.Account.TotalAssets)
	assert.Equal(t, "key123", cfg.Push.ServerChanKey)
	// YAML wins over defaults.
	assert.False(t, *cfg.Engine.IntradayOnly)
	assert.Len(t, cfg.Watchlist.Funds, 1)
	// A YAML watchlist suppresses the built-in one entirely.
	assert.Empty(t, cfg.Watchlist.ETFs)
}

func TestInstruments_PerKindDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	insts := cfg.Instruments()
	require.Len(t, insts, 4)

	fund := insts[0]
	assert.Equal(t, model.KindFund, fund.Kind)
	assert.Equal(t, 2, fund.ConfirmRounds)
	assert.Equal(t, 60*time.Minute, fund.Cooldown)
	assert.Equal(t, 25*time.Minute, fund.FreshnessLimit)

	etf := insts[3]
	assert.Equal(t, model.KindETF, etf.Kind)
	assert.Equal(t, 1, etf.ConfirmRounds)
	assert.Equal(t, 30*time.Minute, etf.Cooldown)
	assert.Equal(t, 0.727, etf.ReferenceHigh)
}

func TestInstruments_RefHighEnvOverride(t *testing.T) {
	t.Setenv("REF_HIGH_512810", "0.750")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	insts := cfg.Instruments()
	assert.Equal(t, 0.750, insts[3].ReferenceHigh)
}

func TestValidate_Rejects(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	cfg.Account.TotalAssets = -1
	assert.Error(t, cfg.Validate())

	cfg.Account.TotalAssets = 100000
	cfg.Watchlist.Funds[0].Band = []float64{-4.0}
	assert.Error(t, cfg.Validate())
}
