package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"FundSentinel/internal/model"
	"FundSentinel/internal/session"
)

// WriteHitsTable prints the hits of one pass as an aligned console table.
func WriteHitsTable(out io.Writer, hits []model.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(out, "no hits this pass")
		return
	}

	table := tablewriter.NewWriter(out)
	table.Header("#", "Time", "Kind", "Code", "Name", "Price", "Pct", "Retr", "Vol", "Amount")

	for i, h := range hits {
		vol := "-"
		if h.Metrics.HasVolume {
			vol = fmt.Sprintf("%.1fx", h.Metrics.VolumeRatio)
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			session.TimeOfDay(h.At.Unix()),
			string(h.Kind),
			h.Code,
			h.Name,
			fmt.Sprintf("%.4f", h.Price),
			fmt.Sprintf("%+.2f%%", h.Metrics.PctChange),
			fmt.Sprintf("%+.2f%%", h.Metrics.Retracement),
			vol,
			fmt.Sprintf("¥%.0f", h.SuggestedAmount),
		)
	}
	table.Render()
}

// WriteDailyTable prints the daily review's signal rows as a console table.
func WriteDailyTable(out io.Writer, d *Daily) {
	fmt.Fprintf(out, "%s: %d signals, %d nav rows\n", d.Date, len(d.Signals), len(d.Navs))
	if len(d.Signals) == 0 {
		return
	}

	table := tablewriter.NewWriter(out)
	table.Header("Time", "Kind", "Code", "Name", "Price", "Pct", "Amount", "Reasons")
	for _, s := range d.Signals {
		table.Append(
			session.TimeOfDay(s.At),
			s.Kind,
			s.Code,
			s.Name,
			fmt.Sprintf("%.4f", s.Price),
			fmt.Sprintf("%+.2f%%", s.PctChange),
			fmt.Sprintf("¥%.0f", s.SuggestedAmount),
			s.Reasons,
		)
	}
	table.Render()
}
