package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"FundSentinel/internal/model"
	"FundSentinel/internal/session"
)

// EastmoneyFetcher reads intraday valuation estimates for open-end funds
// from the Eastmoney estimate endpoint, and official NAVs from the f10
// history endpoint.
type EastmoneyFetcher struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewEastmoneyFetcher creates a fetcher with optional proxy support.
func NewEastmoneyFetcher(proxyURL string) *EastmoneyFetcher {
	return &EastmoneyFetcher{
		Client:  newHTTPClient(proxyURL),
		limiter: rate.NewLimiter(rate.Limit(4), 2),
	}
}

func (f *EastmoneyFetcher) Name() string { return "eastmoney" }

// The estimate endpoint returns JSONP: jsonpgz({...});
var jsonpgzRe = regexp.MustCompile(`jsonpgz\((\{.*\})\);`)

type fundEstimate struct {
	Name   string `json:"name"`
	Dwjz   string `json:"dwjz"`   // previous official NAV
	Gsz    string `json:"gsz"`    // estimated NAV
	Gszzl  string `json:"gszzl"`  // estimated percent change
	Gztime string `json:"gztime"` // "YYYY-MM-DD HH:MM", exchange-local
}

// Fetch retrieves the current valuation estimate for one fund.
func (f *EastmoneyFetcher) Fetch(ctx context.Context, inst model.Instrument) (*model.QuoteSnapshot, error) {
	u := fmt.Sprintf("https://fundgz.1234567.com.cn/js/%s.js?rt=%d", inst.Code, time.Now().UnixMilli())
	body, err := getWithRetry(ctx, f.Client, f.limiter, u, "https://fund.eastmoney.com")
	if err != nil {
		return nil, Unavailable(inst.Code, err)
	}

	snap, derr := parseEstimate(inst.Code, body)
	if derr != nil {
		return nil, derr
	}
	return snap, nil
}

func parseEstimate(code string, body []byte) (*model.QuoteSnapshot, *DataError) {
	m := jsonpgzRe.FindSubmatch(body)
	if m == nil {
		return nil, Unavailable(code, fmt.Errorf("no jsonpgz payload"))
	}
	var est fundEstimate
	if err := json.Unmarshal(m[1], &est); err != nil {
		return nil, Unavailable(code, fmt.Errorf("decode estimate: %w", err))
	}

	price := parseFloat(est.Gsz, 0)
	if price <= 0 {
		return nil, Unavailable(code, fmt.Errorf("no estimate value"))
	}

	snap := &model.QuoteSnapshot{
		Code:     code,
		Name:     est.Name,
		Price:    price,
		RefPrice: parseFloat(est.Dwjz, 0),
		Pct:      parseFloat(est.Gszzl, 0),
		Source:   "eastmoney_estimate",
	}
	// A malformed gztime leaves the timestamp zero; the freshness guard
	// rejects the snapshot rather than trusting unverifiable data.
	if ts, err := time.ParseInLocation("2006-01-02 15:04", est.Gztime, session.Shanghai); err == nil {
		snap.Timestamp = ts
	}
	return snap, nil
}

type lsjzResponse struct {
	Data *struct {
		LSJZList []struct {
			FSRQ  string `json:"FSRQ"`  // date
			DWJZ  string `json:"DWJZ"`  // unit NAV
			JZZZL string `json:"JZZZL"` // day percent change, may be empty
		} `json:"LSJZList"`
	} `json:"Data"`
}

// FetchOfficialNAV returns the latest published official NAV for a fund.
func (f *EastmoneyFetcher) FetchOfficialNAV(ctx context.Context, code string) (*model.NavRecord, error) {
	u := fmt.Sprintf("https://api.fund.eastmoney.com/f10/lsjz?fundCode=%s&pageIndex=1&pageSize=1", code)
	body, err := getWithRetry(ctx, f.Client, f.limiter, u, "https://fundf10.eastmoney.com/")
	if err != nil {
		return nil, fmt.Errorf("fetch nav %s: %w", code, err)
	}

	var resp lsjzResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode nav %s: %w", code, err)
	}
	if resp.Data == nil || len(resp.Data.LSJZList) == 0 {
		return nil, fmt.Errorf("nav %s: empty history", code)
	}

	row := resp.Data.LSJZList[0]
	rec := &model.NavRecord{
		Type:   string(model.KindFund),
		Code:   code,
		Date:   row.FSRQ,
		Value:  parseFloat(row.DWJZ, 0),
		Source: "eastmoney_api",
	}
	if p := optFloat(row.JZZZL); p != nil {
		rec.Pct = *p
		rec.HasPct = true
	}
	return rec, nil
}
