package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"FundSentinel/internal/model"
	"FundSentinel/internal/selector"
)

// FundEntry is one open-end fund on the watchlist.
type FundEntry struct {
	Code          string    `yaml:"code"`
	Name          string    `yaml:"name"`
	ExpectName    string    `yaml:"expect_name"`
	Band          []float64 `yaml:"band"` // [lower, upper] percent
	Proxies       []string  `yaml:"proxies"`
	FreshMin      int       `yaml:"fresh_min"`
	ConfirmRounds int       `yaml:"confirm_rounds"`
	CooldownMin   int       `yaml:"cooldown_min"`
}

// ETFEntry is one exchange-traded instrument on the watchlist.
type ETFEntry struct {
	Code           string    `yaml:"code"` // prefixed (sh/sz) or bare
	Name           string    `yaml:"name"`
	RefHigh        float64   `yaml:"ref_high"`
	Band           []float64 `yaml:"band"`
	ConfirmRounds  int       `yaml:"confirm_rounds"`
	CooldownMin    int       `yaml:"cooldown_min"`
	AvgDailyVolume float64   `yaml:"avg_daily_volume"`
	VolumeBreakout bool      `yaml:"volume_breakout"`
}

// Config holds all application configuration.
type Config struct {
	Push struct {
		ServerChanKey string `yaml:"serverchan_key"`
	} `yaml:"push"`
	Account struct {
		TotalAssets    float64 `yaml:"total_assets"`
		AttackFraction float64 `yaml:"attack_fraction"`
		ETFSlice       float64 `yaml:"etf_slice"`
	} `yaml:"account"`
	Engine struct {
		IntradayOnly    *bool   `yaml:"intraday_only"`
		FreshCeilingMin int     `yaml:"fresh_ceiling_min"`
		VolMultiplier   float64 `yaml:"vol_multiplier"`
	} `yaml:"engine"`
	Watchlist struct {
		Funds []FundEntry `yaml:"funds"`
		ETFs  []ETFEntry  `yaml:"etfs"`
	} `yaml:"watchlist"`
	Schedule struct {
		IntradayCron string `yaml:"intraday_cron"`
		NavCron      string `yaml:"nav_cron"`
		DailyCron    string `yaml:"daily_cron"`
		WeeklyCron   string `yaml:"weekly_cron"`
	} `yaml:"schedule"`
	Selector struct {
		Candidates   []string                     `yaml:"candidates"`
		Overrides    map[string]selector.Override `yaml:"overrides"`
		TargetReturn float64                      `yaml:"target_return"`
		MaxDrawdown  float64                      `yaml:"max_drawdown"`
	} `yaml:"selector"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Reports struct {
		Dir string `yaml:"dir"`
	} `yaml:"reports"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine: the built-in watchlist and
// env vars alone are a working setup.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SCTKEY"); v != "" {
		cfg.Push.ServerChanKey = strings.TrimSpace(v)
	}
	if v := envFloat("TOTAL_ASSETS"); v != nil {
		cfg.Account.TotalAssets = *v
	}
	if v := envFloat("FUND_BUY_RATIO"); v != nil {
		cfg.Account.AttackFraction = *v
	}
	if v := envFloat("ETF_SLICE"); v != nil {
		cfg.Account.ETFSlice = *v
	}
	if v := envFloat("VOL_MULT"); v != nil {
		cfg.Engine.VolMultiplier = *v
	}
	if v := os.Getenv("INTRADAY_ONLY"); v != "" {
		b := v == "1" || strings.EqualFold(v, "true")
		cfg.Engine.IntradayOnly = &b
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.File = v
	}
	if v := os.Getenv("CRON_INTRADAY"); v != "" {
		cfg.Schedule.IntradayCron = v
	}

	// Defaults
	if cfg.Account.TotalAssets == 0 {
		cfg.Account.TotalAssets = 100000
	}
	if cfg.Account.AttackFraction == 0 {
		cfg.Account.AttackFraction = 0.10
	}
	if cfg.Account.ETFSlice == 0 {
		cfg.Account.ETFSlice = 0.035
	}
	if cfg.Engine.IntradayOnly == nil {
		b := true
		cfg.Engine.IntradayOnly = &b
	}
	if cfg.Engine.FreshCeilingMin == 0 {
		cfg.Engine.FreshCeilingMin = 25
	}
	if cfg.Engine.VolMultiplier == 0 {
		cfg.Engine.VolMultiplier = 1.8
	}
	if len(cfg.Watchlist.Funds) == 0 && len(cfg.Watchlist.ETFs) == 0 {
		cfg.Watchlist.Funds = defaultFunds()
		cfg.Watchlist.ETFs = defaultETFs()
	}
	// Every trading day: passes every 5 min inside the gate, NAV after the
	// close, review in the evening, selection Friday night.
	if cfg.Schedule.IntradayCron == "" {
		cfg.Schedule.IntradayCron = "0 */5 9-15 * * 1-5"
	}
	if cfg.Schedule.NavCron == "" {
		cfg.Schedule.NavCron = "0 30 19 * * 1-5"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 20 * * 1-5"
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 21 * * 5"
	}
	if len(cfg.Selector.Candidates) == 0 {
		cfg.Selector.Candidates = []string{"022364", "006502", "018956", "159915", "512810"}
	}
	if cfg.Selector.TargetReturn == 0 {
		cfg.Selector.TargetReturn = 0.20
	}
	if cfg.Selector.MaxDrawdown == 0 {
		cfg.Selector.MaxDrawdown = 0.10
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/action_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fund_sentinel.db"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "reports"
	}

	return cfg, nil
}

func defaultFunds() []FundEntry {
	return []FundEntry{
		{Code: "022364", Name: "永赢科技智选A", ExpectName: "永赢科技", Band: []float64{-4.0, -2.0}},
		{Code: "006502", Name: "财通集成电路产业A", ExpectName: "财通集成电路", Band: []float64{-4.0, -2.0}, Proxies: []string{"sz159995"}},
		{Code: "018956", Name: "中航机遇领航混合A", ExpectName: "中航机遇领航", Band: []float64{-4.0, -2.0}, Proxies: []string{"sh512810"}},
	}
}

func defaultETFs() []ETFEntry {
	return []ETFEntry{
		{Code: "512810", Name: "国防军工ETF", RefHigh: 0.727, Band: []float64{-8.0, -5.0}},
	}
}

// Instruments converts the watchlist into engine instruments, applying
// per-kind defaults and REF_HIGH_<code> environment overrides.
func (c *Config) Instruments() []model.Instrument {
	var out []model.Instrument
	for _, f := range c.Watchlist.Funds {
		inst := model.Instrument{
			Code:           f.Code,
			Kind:           model.KindFund,
			Name:           f.Name,
			ExpectName:     f.ExpectName,
			Band:           toBand(f.Band),
			Proxies:        f.Proxies,
			FreshnessLimit: minutesOr(f.FreshMin, 25),
			ConfirmRounds:  intOr(f.ConfirmRounds, 2),
			Cooldown:       minutesOr(f.CooldownMin, 60),
		}
		out = append(out, inst)
	}
	for _, e := range c.Watchlist.ETFs {
		refHigh := e.RefHigh
		if v := envFloat("REF_HIGH_" + bareCode(e.Code)); v != nil {
			refHigh = *v
		}
		inst := model.Instrument{
			Code:           e.Code,
			Kind:           model.KindETF,
			Name:           e.Name,
			ReferenceHigh:  refHigh,
			Band:           toBand(e.Band),
			ConfirmRounds:  intOr(e.ConfirmRounds, 1),
			Cooldown:       minutesOr(e.CooldownMin, 30),
			AvgDailyVolume: e.AvgDailyVolume,
			VolumeBreakout: e.VolumeBreakout || e.AvgDailyVolume > 0,
		}
		out = append(out, inst)
	}
	return out
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Account.TotalAssets <= 0 {
		return fmt.Errorf("account.total_assets must be positive")
	}
	if c.Account.AttackFraction <= 0 || c.Account.AttackFraction > 1 {
		return fmt.Errorf("account.attack_fraction must be in (0, 1]")
	}
	for _, f := range c.Watchlist.Funds {
		if f.Code == "" {
			return fmt.Errorf("watchlist fund with empty code")
		}
		if len(f.Band) != 2 {
			return fmt.Errorf("fund %s: band must be [lower, upper]", f.Code)
		}
	}
	for _, e := range c.Watchlist.ETFs {
		if e.Code == "" {
			return fmt.Errorf("watchlist etf with empty code")
		}
		if len(e.Band) != 2 {
			return fmt.Errorf("etf %s: band must be [lower, upper]", e.Code)
		}
	}
	return nil
}

func toBand(b []float64) model.Band {
	if len(b) != 2 {
		return model.Band{}
	}
	return model.Band{Lower: b[0], Upper: b[1]}
}

func bareCode(code string) string {
	return strings.TrimPrefix(strings.TrimPrefix(code, "sh"), "sz")
}

func envFloat(key string) *float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

func minutesOr(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Minute
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
