package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"FundSentinel/internal/allocation"
	"FundSentinel/internal/archive"
	"FundSentinel/internal/collector"
	"FundSentinel/internal/config"
	"FundSentinel/internal/engine"
	"FundSentinel/internal/notifier"
	"FundSentinel/internal/recorder"
	"FundSentinel/internal/scheduler"
	"FundSentinel/internal/selector"
	"FundSentinel/internal/state"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	daemon := flag.Bool("daemon", false, "run the cron scheduler instead of a single pass")
	flag.Parse()

	log.Println("[INFO] FundSentinel starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Data sources
	estimates := collector.NewEastmoneyFetcher(cfg.Proxy)
	quotes := collector.NewSinaFetcher(cfg.Proxy)

	// Push channel
	var push notifier.Notifier
	if cfg.Push.ServerChanKey != "" {
		push = notifier.NewServerChanNotifier(cfg.Push.ServerChanKey, cfg.Proxy)
	} else {
		log.Println("[INFO] no push key configured, alerts go to the log")
		push = notifier.ConsoleNotifier{}
	}

	// Audit trail
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	instruments := cfg.Instruments()
	eng := engine.New(engine.Config{
		Instruments:   instruments,
		FreshCeiling:  minutes(cfg.Engine.FreshCeilingMin),
		VolMultiplier: cfg.Engine.VolMultiplier,
		IntradayOnly:  *cfg.Engine.IntradayOnly,
	}, estimates, quotes, quotes, engine.SystemClock{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := &scheduler.Scheduler{
		Engine: eng,
		Store:  state.NewFileStore(cfg.State.File),
		Policy: allocation.Policy{
			TotalAssets:    cfg.Account.TotalAssets,
			AttackFraction: cfg.Account.AttackFraction,
			ETFSlice:       cfg.Account.ETFSlice,
		},
		Notifier: push,
		Recorder: rec,
		Archiver: &archive.Archiver{
			Funds:    estimates,
			Quotes:   quotes,
			Recorder: rec,
			Dir:      cfg.Reports.Dir,
		},
		Selector: &selector.Selector{
			Profiles:     collector.NewProfileFetcher(cfg.Proxy),
			Pool:         cfg.Selector.Candidates,
			Overrides:    cfg.Selector.Overrides,
			Dir:          cfg.Reports.Dir,
			TargetReturn: cfg.Selector.TargetReturn,
			MaxDrawdown:  cfg.Selector.MaxDrawdown,
		},
		Instruments: instruments,
		ReportsDir:  cfg.Reports.Dir,
		Ctx:         ctx,
	}

	if !*daemon {
		// One-shot: a single intraday pass, the GitHub Actions style of
		// running. Only a failed state save is a hard error.
		if err := sched.RunIntradayOnce(); err != nil {
			log.Fatalf("[FATAL] intraday pass: %v", err)
		}
		return
	}

	if err := sched.RegisterAll(
		cfg.Schedule.IntradayCron, cfg.Schedule.NavCron,
		cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron,
	); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing intraday pass now")
		go func() {
			if err := sched.RunIntradayOnce(); err != nil {
				log.Printf("[ERROR] intraday pass: %v", err)
			}
		}()
	}

	log.Println("[INFO] FundSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] FundSentinel stopped")
}

func minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
