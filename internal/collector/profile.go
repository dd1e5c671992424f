package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"FundSentinel/internal/model"
)

// ProfileFetcher reads public fund profile data (trailing growth, scale,
// manager) for the weekly selector.
type ProfileFetcher struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewProfileFetcher creates a fetcher with optional proxy support. The
// limiter keeps the selector's pool scan polite.
func NewProfileFetcher(proxyURL string) *ProfileFetcher {
	return &ProfileFetcher{
		Client:  newHTTPClient(proxyURL),
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

type dxResponse struct {
	Code int `json:"code"`
	Data []struct {
		Name                  string `json:"name"`
		NetWorth              string `json:"netWorth"`
		DayGrowth             string `json:"dayGrowth"`
		LastWeekGrowth        string `json:"lastWeekGrowth"`
		LastMonthGrowth       string `json:"lastMonthGrowth"`
		LastThreeMonthsGrowth string `json:"lastThreeMonthsGrowth"`
		LastSixMonthsGrowth   string `json:"lastSixMonthsGrowth"`
		LastYearGrowth        string `json:"lastYearGrowth"`
		FundScale             string `json:"fundScale"`
		Manager               string `json:"manager"`
	} `json:"data"`
}

// Fetch retrieves the profile for one candidate fund.
func (f *ProfileFetcher) Fetch(ctx context.Context, code string) (*model.FundProfile, error) {
	u := fmt.Sprintf("https://api.doctorxiong.club/v1/fund?code=%s", code)
	body, err := getWithRetry(ctx, f.Client, f.limiter, u, "")
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", code, err)
	}

	var resp dxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", code, err)
	}
	if resp.Code != 200 || len(resp.Data) == 0 {
		return nil, fmt.Errorf("profile %s: no data", code)
	}

	d := resp.Data[0]
	return &model.FundProfile{
		Code:       code,
		Name:       d.Name,
		DayGrowth:  optFloat(d.DayGrowth),
		WeekGrowth: optFloat(d.LastWeekGrowth),
		Month1:     optFloat(d.LastMonthGrowth),
		Month3:     optFloat(d.LastThreeMonthsGrowth),
		Month6:     optFloat(d.LastSixMonthsGrowth),
		Year1:      optFloat(d.LastYearGrowth),
		NetWorth:   parseFloat(d.NetWorth, 0),
		FundScale:  d.FundScale,
		Manager:    d.Manager,
	}, nil
}
