package notifier

import (
	"fmt"
	"strings"

	"FundSentinel/internal/model"
)

// FormatFundBatch formats the fund hits of one pass as a single push. The
// body carries the equal-weight sizing so the reader can place orders from
// the phone without opening anything else.
func FormatFundBatch(hits []model.Hit, totalAssets, attackFraction float64) (title, desp string) {
	title = fmt.Sprintf("BUY x%d（场外预警｜进攻仓%.0f%%等权）", len(hits), attackFraction*100)

	attack := totalAssets * attackFraction
	perBuy := 0.0
	if len(hits) > 0 {
		perBuy = hits[0].SuggestedAmount
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("总资产≈¥%.0f，进攻仓≈¥%.0f，单只≈¥%.0f\n", totalAssets, attack, perBuy))
	for _, h := range hits {
		proxy := "无"
		if h.Metrics.HasProxy {
			proxy = fmt.Sprintf("%+.2f%%", h.Metrics.ProxyPct)
		}
		b.WriteString(fmt.Sprintf("BUY %s %s｜估值%+.2f%%｜净值≈%.4f｜ETF均%s｜%s\n",
			h.Code, h.Name, h.Metrics.PctChange, h.Price, proxy, strings.Join(h.Reasons, "；")))
	}
	return title, b.String()
}

// FormatETFAlert formats a single quote-instrument hit.
func FormatETFAlert(h model.Hit) (title, desp string) {
	title = fmt.Sprintf("BUY %s %s", h.Code, h.Name)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("价格:%.3f（当日%+.2f%%）\n", h.Price, h.Metrics.PctChange))
	b.WriteString(strings.Join(h.Reasons, "；"))
	b.WriteString("\n")
	if h.SuggestedAmount > 0 {
		b.WriteString(fmt.Sprintf("建议买入≈¥%.0f（进攻仓切片）\n", h.SuggestedAmount))
	}
	return title, b.String()
}
