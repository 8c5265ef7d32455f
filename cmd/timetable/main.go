package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/bcdxn/f1timetable/internal/config"
	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/bcdxn/f1timetable/internal/f1web"
	"github.com/bcdxn/f1timetable/internal/locate"
	"github.com/bcdxn/f1timetable/internal/logger"
	"github.com/bcdxn/f1timetable/internal/notify"
	"github.com/bcdxn/f1timetable/internal/reconcile"
	"github.com/bcdxn/f1timetable/internal/report"
	"github.com/bcdxn/f1timetable/internal/storage"
	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, f, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer f.Close()
	l = l.With("run", uuid.NewString())

	// the season listing, event pages and timetables all come from the F1 website
	client := f1web.New(
		f1web.WithBaseURL(cfg.BaseURL),
		f1web.WithUserAgent(cfg.UserAgent),
		f1web.WithDelay(cfg.RequestDelay),
		f1web.WithLogger(l),
	)

	finder, err := locate.NewZoneFinder()
	if err != nil {
		return fmt.Errorf("timezone finder: %w", err)
	}
	resolver := locate.New(
		locate.NewNominatim(cfg.GeocoderURL, cfg.UserAgent),
		finder,
		locate.WithOverrides(cfg.TimezoneOverrides),
		locate.WithLogger(l),
	)

	store, err := storage.Open(ctx, cfg.StorageURL)
	if err != nil {
		return err
	}
	defer store.Close()

	driver := reconcile.New(client, resolver, store,
		reconcile.WithYear(cfg.Year),
		reconcile.WithDryRun(cfg.DryRun),
		reconcile.WithLogger(l),
	)
	rep, runErr := driver.Run(ctx)

	if err := writeSchedule(cfg.ScheduleOut, rep); err != nil {
		l.Error("error writing schedule", "file", cfg.ScheduleOut, "err", err)
		runErr = errors.Join(runErr, err)
	}
	fmt.Println(report.Render(rep))

	if cfg.DiscordWebhookURL != "" {
		n, err := notify.New(cfg.DiscordWebhookURL, notify.WithLogger(l))
		if err != nil {
			l.Error("error configuring discord", "err", err)
		} else if err := n.Notify(context.WithoutCancel(ctx), rep); err != nil {
			l.Error("error notifying discord", "err", err)
		}
	}
	return runErr
}

func writeSchedule(path string, rep domain.Report) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteText(out, rep); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
