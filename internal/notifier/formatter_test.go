package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FundSentinel/internal/model"
)

func TestFormatFundBatch(t *testing.T) {
	hits := []model.Hit{
		{
			Code: "022364", Name: "永赢科技智选A", Kind: model.KindFund,
			Price: 1.1986, SuggestedAmount: 5000,
			Metrics: model.Metrics{PctChange: -2.87, ProxyPct: -2.1, HasProxy: true},
			Reasons: []string{"回撤-2.87% ∈ [-4.0%, -2.0%]"},
		},
		{
			Code: "006502", Name: "财通集成电路产业A", Kind: model.KindFund,
			Price: 2.31, SuggestedAmount: 5000,
			Metrics: model.Metrics{PctChange: -3.10},
			Reasons: []string{"回撤-3.10% ∈ [-4.0%, -2.0%]"},
		},
	}

	title, desp := FormatFundBatch(hits, 100_000, 0.10)
	assert.Equal(t, "BUY x2（场外预警｜进攻仓10%等权）", title)
	assert.Contains(t, desp, "总资产≈¥100000，进攻仓≈¥10000，单只≈¥5000")
	assert.Contains(t, desp, "BUY 022364 永赢科技智选A｜估值-2.87%")
	assert.Contains(t, desp, "ETF均-2.10%")
	assert.Contains(t, desp, "ETF均无")
}

func TestFormatETFAlert(t *testing.T) {
	h := model.Hit{
		Code: "512810", Name: "国防军工", Kind: model.KindETF,
		Price: 0.690, SuggestedAmount: 350,
		Metrics: model.Metrics{PctChange: -3.36, Retracement: -5.09},
		Reasons: []string{"回撤-5.09% ∈ [-8.0%, -5.0%]"},
	}
	title, desp := FormatETFAlert(h)
	assert.Equal(t, "BUY 512810 国防军工", title)
	assert.Contains(t, desp, "价格:0.690（当日-3.36%）")
	assert.Contains(t, desp, "建议买入≈¥350")
}
