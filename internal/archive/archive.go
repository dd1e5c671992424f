// Package archive snapshots official closes into dated CSV files and the
// audit database, one file per session date.
package archive

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"FundSentinel/internal/model"
	"FundSentinel/internal/recorder"
	"FundSentinel/internal/session"
)

// NavSource fetches the latest published unit NAV for an open-end fund.
type NavSource interface {
	FetchOfficialNAV(ctx context.Context, code string) (*model.NavRecord, error)
}

// Archiver collects end-of-day values for the whole watchlist.
type Archiver struct {
	Funds  NavSource
	Quotes interface {
		Fetch(ctx context.Context, inst model.Instrument) (*model.QuoteSnapshot, error)
	}
	Recorder recorder.Recorder
	Dir      string // reports root, e.g. "reports"
}

// Run fetches NAV for funds and closes for quote instruments, writes a CSV
// under <dir>/nav/, and mirrors every row into the recorder. A failed fetch
// still produces a row, so gaps are visible in the file.
func (a *Archiver) Run(ctx context.Context, instruments []model.Instrument) error {
	var rows []model.NavRecord
	for _, inst := range instruments {
		rows = append(rows, a.collect(ctx, inst))
	}

	fileDate := ""
	for _, r := range rows {
		if r.Source != "fetch_error" && r.Date != "" {
			fileDate = r.Date
			break
		}
	}
	if fileDate == "" {
		fileDate = session.Today(time.Now())
	}

	if err := a.writeCSV(fileDate, rows); err != nil {
		return err
	}
	for i := range rows {
		if rows[i].Source == "fetch_error" {
			continue
		}
		if err := a.Recorder.RecordNav(&rows[i]); err != nil {
			log.Printf("[WARN] nav record %s failed: %v", rows[i].Code, err)
		}
	}
	return nil
}

func (a *Archiver) collect(ctx context.Context, inst model.Instrument) model.NavRecord {
	if inst.Kind == model.KindFund {
		rec, err := a.Funds.FetchOfficialNAV(ctx, inst.Code)
		if err != nil {
			log.Printf("[WARN] nav fetch %s failed: %v", inst.Code, err)
			return errorRow(inst)
		}
		if rec.Name == "" {
			rec.Name = inst.Name
		}
		return *rec
	}

	snap, err := a.Quotes.Fetch(ctx, inst)
	if err != nil {
		log.Printf("[WARN] close fetch %s failed: %v", inst.Code, err)
		return errorRow(inst)
	}
	return model.NavRecord{
		Type:   string(model.KindETF),
		Code:   inst.Code,
		Name:   snap.Name,
		Date:   session.Today(snap.Timestamp),
		Value:  snap.Price,
		Pct:    snap.Pct,
		HasPct: true,
		Source: snap.Source,
	}
}

func errorRow(inst model.Instrument) model.NavRecord {
	return model.NavRecord{
		Type:   string(inst.Kind),
		Code:   inst.Code,
		Name:   inst.Name,
		Date:   session.Today(time.Now()),
		Source: "fetch_error",
	}
}

func (a *Archiver) writeCSV(date string, rows []model.NavRecord) error {
	dir := filepath.Join(a.Dir, "nav")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create nav dir: %w", err)
	}
	path := filepath.Join(dir, date+".csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"type", "code", "name", "date", "value", "pct", "source"}); err != nil {
		return err
	}
	for _, r := range rows {
		value, pct := "", ""
		if r.Source != "fetch_error" {
			value = strconv.FormatFloat(r.Value, 'f', 4, 64)
			if r.HasPct {
				pct = strconv.FormatFloat(r.Pct, 'f', 2, 64)
			}
		}
		if err := w.Write([]string{r.Type, r.Code, r.Name, r.Date, value, pct, r.Source}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] nav archive saved: %s (%d rows)", path, len(rows))
	return nil
}
