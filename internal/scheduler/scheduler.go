package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"FundSentinel/internal/allocation"
	"FundSentinel/internal/archive"
	"FundSentinel/internal/engine"
	"FundSentinel/internal/model"
	"FundSentinel/internal/notifier"
	"FundSentinel/internal/recorder"
	"FundSentinel/internal/report"
	"FundSentinel/internal/selector"
	"FundSentinel/internal/session"
	"FundSentinel/internal/state"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron        *cron.Cron
	Engine      *engine.Engine
	Store       state.Store
	Policy      allocation.Policy
	Notifier    notifier.Notifier
	Recorder    recorder.Recorder
	Archiver    *archive.Archiver
	Selector    *selector.Selector
	Instruments []model.Instrument
	ReportsDir  string
	Ctx         context.Context
}

// RegisterAll registers the intraday, NAV, daily-review, and weekly tasks.
func (s *Scheduler) RegisterAll(intradayCron, navCron, dailyCron, weeklyCron string) error {
	if s.Cron == nil {
		s.Cron = cron.New(cron.WithSeconds())
	}
	if _, err := s.Cron.AddFunc(intradayCron, s.intradayTask); err != nil {
		return fmt.Errorf("register intraday task: %w", err)
	}
	if _, err := s.Cron.AddFunc(navCron, s.navTask); err != nil {
		return fmt.Errorf("register nav task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunIntradayOnce executes a single intraday pass (one-shot mode). The
// returned error is a failed state save, nothing else: signal evaluation is
// best-effort per instrument and push delivery never fails the pass.
func (s *Scheduler) RunIntradayOnce() error {
	st, err := s.Store.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	hits := s.Engine.RunOnce(s.Ctx, st)
	s.Policy.Assign(hits)
	s.dispatch(hits)
	report.WriteHitsTable(os.Stdout, hits)

	if err := s.Store.Save(st); err != nil {
		// An unsaved pass can fire the same signal again next time.
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *Scheduler) intradayTask() {
	log.Println("[INFO] running intraday pass")
	if err := s.RunIntradayOnce(); err != nil {
		log.Printf("[ERROR] intraday pass: %v", err)
	}
}

// dispatch pushes and records the pass's hits: funds batched into one
// message, quote instruments one message each.
func (s *Scheduler) dispatch(hits []model.Hit) {
	var funds []model.Hit
	for _, h := range hits {
		if h.Kind == model.KindFund {
			funds = append(funds, h)
		}
	}

	if len(funds) > 0 {
		title, desp := notifier.FormatFundBatch(funds, s.Policy.TotalAssets, s.Policy.AttackFraction)
		s.trySend(title, desp)
	}
	for _, h := range hits {
		if h.Kind == model.KindETF {
			title, desp := notifier.FormatETFAlert(h)
			s.trySend(title, desp)
		}
	}

	for _, h := range hits {
		rec := recorder.FromHit(h, session.Today(h.At))
		if err := s.Recorder.RecordSignal(rec); err != nil {
			log.Printf("[ERROR] record signal %s: %v", h.Code, err)
		}
	}
}

func (s *Scheduler) navTask() {
	log.Println("[INFO] running nav archive")
	if err := s.Archiver.Run(s.Ctx, s.Instruments); err != nil {
		log.Printf("[ERROR] nav archive: %v", err)
	}
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily review")
	today := session.Today(time.Now())
	d, err := report.Collect(s.Recorder, today)
	if err != nil {
		log.Printf("[ERROR] daily review: %v", err)
		return
	}
	path, err := d.Save(s.ReportsDir)
	if err != nil {
		log.Printf("[ERROR] daily review: %v", err)
		return
	}
	log.Printf("[INFO] daily review saved: %s", path)
	report.WriteDailyTable(os.Stdout, d)

	title, desp := d.PushSummary()
	s.trySend(title, desp)
}

func (s *Scheduler) weeklyTask() {
	log.Println("[INFO] running weekly selection")
	today := session.Today(time.Now())
	rows, err := s.Selector.Run(s.Ctx, today)
	if err != nil {
		log.Printf("[ERROR] weekly selection: %v", err)
		return
	}
	if len(rows) > 0 {
		desp := ""
		for i, r := range rows {
			if i == 3 {
				break
			}
			desp += fmt.Sprintf("- %s %s 总分%.1f\n", r.Code, r.Name, r.ScoreTotal)
		}
		s.trySend(fmt.Sprintf("周选基 | %s Top%d", today, min(3, len(rows))), desp)
	}
}

func (s *Scheduler) trySend(title, desp string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, title, desp, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
