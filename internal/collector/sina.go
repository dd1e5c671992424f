package collector

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"FundSentinel/internal/model"
)

// SinaFetcher reads live exchange quotes for ETFs (and direction-check
// proxies) from the Sina hq endpoint.
type SinaFetcher struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewSinaFetcher creates a fetcher with optional proxy support.
func NewSinaFetcher(proxyURL string) *SinaFetcher {
	return &SinaFetcher{
		Client:  newHTTPClient(proxyURL),
		limiter: rate.NewLimiter(rate.Limit(5), 2),
	}
}

func (f *SinaFetcher) Name() string { return "sina" }

// NormalizeCode prefixes a bare 6-digit code with its exchange: Shenzhen
// listings start with 0/1/2/3, everything else is Shanghai.
func NormalizeCode(code string) string {
	c := strings.TrimSpace(code)
	if strings.HasPrefix(c, "sh") || strings.HasPrefix(c, "sz") {
		return c
	}
	if len(c) == 6 {
		switch c[0] {
		case '0', '1', '2', '3':
			return "sz" + c
		default:
			return "sh" + c
		}
	}
	return c
}

// The hq endpoint returns: var hq_str_sh512810="name,open,preclose,price,...";
var sinaLineRe = regexp.MustCompile(`="([^"]*)";`)

// Fetch retrieves the current quote for one exchange-listed instrument.
func (f *SinaFetcher) Fetch(ctx context.Context, inst model.Instrument) (*model.QuoteSnapshot, error) {
	u := fmt.Sprintf("http://hq.sinajs.cn/list=%s", NormalizeCode(inst.Code))
	body, err := getWithRetry(ctx, f.Client, f.limiter, u, "https://finance.sina.com.cn")
	if err != nil {
		return nil, Unavailable(inst.Code, err)
	}

	snap, derr := parseSinaLine(inst.Code, string(body))
	if derr != nil {
		return nil, derr
	}
	return snap, nil
}

func parseSinaLine(code, body string) (*model.QuoteSnapshot, *DataError) {
	m := sinaLineRe.FindStringSubmatch(body)
	if m == nil {
		return nil, Unavailable(code, fmt.Errorf("malformed quote line"))
	}
	parts := strings.Split(m[1], ",")
	if len(parts) < 10 {
		return nil, Unavailable(code, fmt.Errorf("quote line has %d fields", len(parts)))
	}

	price := parseFloat(parts[3], 0)
	preclose := parseFloat(parts[2], 0)
	if price <= 0 || preclose <= 0 {
		return nil, Unavailable(code, fmt.Errorf("no trade data"))
	}

	return &model.QuoteSnapshot{
		Code:      code,
		Name:      parts[0],
		Price:     price,
		RefPrice:  preclose,
		Pct:       (price - preclose) / preclose * 100.0,
		High:      parseFloat(parts[4], 0),
		Low:       parseFloat(parts[5], 0),
		Volume:    parseFloat(parts[8], 0), // hands
		Turnover:  parseFloat(parts[9], 0), // yuan
		Timestamp: time.Now(),
		Source:    "sina_quote",
	}, nil
}

// FetchPct is a convenience for direction cross-checks: the day percent
// change of one proxy code, nothing else.
func (f *SinaFetcher) FetchPct(ctx context.Context, code string) (float64, error) {
	snap, err := f.Fetch(ctx, model.Instrument{Code: code, Kind: model.KindETF})
	if err != nil {
		return 0, err
	}
	return snap.Pct, nil
}
