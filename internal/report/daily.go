// Package report renders the end-of-day review from the audit trail.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"FundSentinel/internal/model"
	"FundSentinel/internal/recorder"
	"FundSentinel/internal/session"
)

// Daily is the material of one day's review: everything that fired plus the
// official closes archived that evening.
type Daily struct {
	Date    string
	Signals []recorder.SignalRecord
	Navs    []model.NavRecord
}

// Collect pulls the day's rows out of the recorder.
func Collect(rec recorder.Recorder, date string) (*Daily, error) {
	signals, err := rec.SignalsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("load signals: %w", err)
	}
	navs, err := rec.NavByDate(date)
	if err != nil {
		return nil, fmt.Errorf("load nav: %w", err)
	}
	return &Daily{Date: date, Signals: signals, Navs: navs}, nil
}

// Markdown renders the review as a markdown document.
func (d *Daily) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s 交易日信号日报\n\n", d.Date))
	b.WriteString(fmt.Sprintf("- 触发总数：**%d**\n\n", len(d.Signals)))

	if len(d.Signals) > 0 {
		b.WriteString("| 时间 | 类型 | 代码 | 名称 | 理由 | 价格/估值 | 当日涨跌 | 距参高回撤 | 建议金额 |\n")
		b.WriteString("|---|---|---|---|---|---:|---:|---:|---:|\n")
		for _, s := range d.Signals {
			at := session.TimeOfDay(s.At)
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.4f | %+.2f%% | %+.2f%% | ¥%.0f |\n",
				at, s.Kind, s.Code, s.Name, s.Reasons,
				s.Price, s.PctChange, s.Retracement, s.SuggestedAmount))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("> 当日无触发。\n\n")
	}

	if len(d.Navs) > 0 {
		b.WriteString("## 官方净值 / 收盘价\n")
		b.WriteString("| 类型 | 代码 | 名称 | 日期 | 净值/收盘 | 当日涨跌(%) | 来源 |\n")
		b.WriteString("|---|---|---|---|---:|---:|---|\n")
		for _, n := range d.Navs {
			pct := ""
			if n.HasPct {
				pct = fmt.Sprintf("%+.2f", n.Pct)
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.4f | %s | %s |\n",
				n.Type, n.Code, n.Name, n.Date, n.Value, pct, n.Source))
		}
	}
	return b.String()
}

// Save writes the markdown under <dir>/daily/<date>.md and returns the path.
func (d *Daily) Save(dir string) (string, error) {
	out := filepath.Join(dir, "daily")
	if err := os.MkdirAll(out, 0755); err != nil {
		return "", fmt.Errorf("create daily dir: %w", err)
	}
	path := filepath.Join(out, d.Date+".md")
	if err := os.WriteFile(path, []byte(d.Markdown()), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// PushSummary condenses the review into a short push body: the first three
// signals plus a count, or a quiet-day line.
func (d *Daily) PushSummary() (title, desp string) {
	title = fmt.Sprintf("日报 | %s 信号%d条 / NAV %d条", d.Date, len(d.Signals), len(d.Navs))
	if len(d.Signals) == 0 {
		return title, "当日无信号触发。"
	}
	var lines []string
	for i, s := range d.Signals {
		if i == 3 {
			lines = append(lines, fmt.Sprintf("...共 %d 条", len(d.Signals)))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s %s %s | %s", session.TimeOfDay(s.At), s.Code, s.Name, s.Reasons))
	}
	return title, strings.Join(lines, "\n")
}
