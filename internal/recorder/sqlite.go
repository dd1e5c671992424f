package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"FundSentinel/internal/model"
)

// SQLiteRecorder persists the audit trail to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the daily review can read while a pass writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id               TEXT PRIMARY KEY,
			date             TEXT NOT NULL,
			at               INTEGER NOT NULL,
			code             TEXT NOT NULL,
			name             TEXT,
			kind             TEXT,
			price            REAL,
			retracement      REAL,
			pct_change       REAL,
			volume_ratio     REAL,
			vol_breakout     INTEGER,
			proxy_pct        REAL,
			suggested_amount REAL,
			reasons          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_date ON signals(date)`,

		`CREATE TABLE IF NOT EXISTS nav_history (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			date   TEXT NOT NULL,
			type   TEXT NOT NULL,
			code   TEXT NOT NULL,
			name   TEXT,
			value  REAL,
			pct    REAL,
			has_pct INTEGER,
			source TEXT,
			UNIQUE(date, code)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nav_date ON nav_history(date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO signals
		(id, date, at, code, name, kind, price, retracement, pct_change,
		 volume_ratio, vol_breakout, proxy_pct, suggested_amount, reasons)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Date, rec.At, rec.Code, rec.Name, rec.Kind,
		rec.Price, rec.Retracement, rec.PctChange,
		rec.VolumeRatio, rec.VolBreakout, rec.ProxyPct,
		rec.SuggestedAmount, rec.Reasons,
	)
	return err
}

func (r *SQLiteRecorder) RecordNav(rec *model.NavRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO nav_history
		(date, type, code, name, value, pct, has_pct, source)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.Date, rec.Type, rec.Code, rec.Name,
		rec.Value, rec.Pct, rec.HasPct, rec.Source,
	)
	return err
}

func (r *SQLiteRecorder) SignalsByDate(date string) ([]SignalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, date, at, code, name, kind, price,
		retracement, pct_change, volume_ratio, vol_breakout, proxy_pct,
		suggested_amount, reasons
		FROM signals WHERE date = ? ORDER BY at`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.At, &rec.Code, &rec.Name,
			&rec.Kind, &rec.Price, &rec.Retracement, &rec.PctChange,
			&rec.VolumeRatio, &rec.VolBreakout, &rec.ProxyPct,
			&rec.SuggestedAmount, &rec.Reasons); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *SQLiteRecorder) NavByDate(date string) ([]model.NavRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT date, type, code, name, value, pct, has_pct, source
		FROM nav_history WHERE date = ? ORDER BY type, code`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.NavRecord
	for rows.Next() {
		var rec model.NavRecord
		if err := rows.Scan(&rec.Date, &rec.Type, &rec.Code, &rec.Name,
			&rec.Value, &rec.Pct, &rec.HasPct, &rec.Source); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
