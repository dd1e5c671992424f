// Package selector runs the weekly candidate-pool scoring: collect trailing
// performance, score four dimensions, rank, and write a report.
package selector

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"FundSentinel/internal/model"
)

// Override carries the figures the free profile APIs do not expose reliably,
// maintained by hand in the config.
type Override struct {
	ManagerYears *float64 `yaml:"manager_years"`
	FeeTotal     *float64 `yaml:"fee_total"`
	ScaleBil     *float64 `yaml:"scale_bil"`
	Theme        string   `yaml:"theme"`
}

// ProfileSource fetches public profile data for one candidate.
type ProfileSource interface {
	Fetch(ctx context.Context, code string) (*model.FundProfile, error)
}

// Scored is one candidate after feature extraction and scoring.
type Scored struct {
	Code         string
	Name         string
	Theme        string
	W1, M1, M3   *float64
	M6, Y1, Day  *float64
	ScaleBil     *float64
	FeeTotal     *float64
	ManagerYears *float64

	ScoreMgr     float64
	ScoreProd    float64
	ScoreHist    float64
	ScoreOutlook float64
	ScoreTotal   float64
}

// Selector scans a candidate pool and ranks it.
type Selector struct {
	Profiles  ProfileSource
	Pool      []string
	Overrides map[string]Override
	Dir       string // reports root

	TargetReturn float64 // annual target, fraction
	MaxDrawdown  float64 // tolerated portfolio drawdown, fraction
}

// Run scores the pool and writes the ranking CSV and markdown report under
// <dir>/weekly/. A candidate whose profile fetch fails is still ranked, on
// missing-data scores, so it stays visible.
func (s *Selector) Run(ctx context.Context, date string) ([]Scored, error) {
	var rows []Scored
	for _, code := range s.Pool {
		profile, err := s.Profiles.Fetch(ctx, code)
		if err != nil {
			log.Printf("[WARN] selector: profile %s failed: %v", code, err)
			profile = &model.FundProfile{Code: code, Name: code}
		}
		rows = append(rows, s.score(code, profile))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ScoreTotal > rows[j].ScoreTotal
	})

	if err := s.writeCSV(date, rows); err != nil {
		return nil, err
	}
	if err := s.writeMarkdown(date, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Selector) score(code string, p *model.FundProfile) Scored {
	ov := s.Overrides[code]

	row := Scored{
		Code:  code,
		Name:  p.Name,
		Theme: ov.Theme,
		W1:    p.WeekGrowth,
		M1:    p.Month1,
		M3:    p.Month3,
		M6:    p.Month6,
		Y1:    p.Year1,
		Day:   p.DayGrowth,

		ManagerYears: ov.ManagerYears,
		FeeTotal:     ov.FeeTotal,
		ScaleBil:     ov.ScaleBil,
	}
	if row.Name == "" {
		row.Name = code
	}
	if row.ScaleBil == nil {
		row.ScaleBil = parseScaleBil(p.FundScale)
	}

	row.ScoreMgr = scoreManager(row.ManagerYears)
	row.ScoreProd = scoreProduct(row.ScaleBil, row.FeeTotal)
	row.ScoreHist = scoreHistory(row.M1, row.M3, row.M6, row.Y1)
	row.ScoreOutlook = scoreOutlook(row.W1, row.M1, row.Day)
	row.ScoreTotal = row.ScoreMgr + row.ScoreProd + row.ScoreHist + row.ScoreOutlook
	return row
}

func (s *Selector) writeCSV(date string, rows []Scored) error {
	dir := filepath.Join(s.Dir, "weekly")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create weekly dir: %w", err)
	}
	path := filepath.Join(dir, date+"-fund-ranking.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"code", "name", "theme", "score_total", "score_mgr",
		"score_prod", "score_hist", "score_outlook", "w1", "m1", "m3", "m6", "y1",
		"scale_bil", "fee_total", "manager_years"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Code, r.Name, r.Theme,
			strconv.FormatFloat(r.ScoreTotal, 'f', 2, 64),
			strconv.FormatFloat(r.ScoreMgr, 'f', 1, 64),
			strconv.FormatFloat(r.ScoreProd, 'f', 1, 64),
			strconv.FormatFloat(r.ScoreHist, 'f', 1, 64),
			strconv.FormatFloat(r.ScoreOutlook, 'f', 1, 64),
			optStr(r.W1), optStr(r.M1), optStr(r.M3), optStr(r.M6), optStr(r.Y1),
			optStr(r.ScaleBil), optStr(r.FeeTotal), optStr(r.ManagerYears),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] selector ranking saved: %s", path)
	return nil
}

func (s *Selector) writeMarkdown(date string, rows []Scored) error {
	path := filepath.Join(s.Dir, "weekly", date+"-fund-report.md")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("# 每周基金动态筛选（%s）\n\n", date))
	b.WriteString(fmt.Sprintf("- 目标: 年底总收益 ≥ %.0f%%\n", s.TargetReturn*100))
	b.WriteString(fmt.Sprintf("- 风险: 组合最大回撤 ≤ %.0f%%\n", s.MaxDrawdown*100))
	b.WriteString(fmt.Sprintf("- 候选数量: %d\n\n", len(rows)))

	b.WriteString("## Top 10 综合评分\n\n")
	b.WriteString("| code | name | theme | 总分 | 经理 | 产品 | 历史 | 前景 | 近1月 | 近3月 |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for i, r := range rows {
		if i == 10 {
			break
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %.1f | %.1f | %.1f | %.1f | %s | %s |\n",
			r.Code, r.Name, r.Theme, r.ScoreTotal, r.ScoreMgr, r.ScoreProd,
			r.ScoreHist, r.ScoreOutlook, optStr(r.M1), optStr(r.M3)))
	}
	b.WriteString("\n## 组合建议\n\n")
	b.WriteString("- 取 Top 3-5 为持仓候选；单只≤25%；组合仓位 80-100%\n")
	b.WriteString("- 若持仓基金当周跌出前5，下周调出；单只止损 -5%，止盈 +15% 分批\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] selector report saved: %s", path)
	return nil
}

func optStr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
