// Package reconcile runs a season's timetables through the normalization core and writes the
// resulting session times into the stored season of every series.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/bcdxn/f1timetable/internal/timetable"
	"golang.org/x/sync/errgroup"
)

// Source provides the season's events and, per event, its location and timetable rows.
type Source interface {
	Events(ctx context.Context, year int) ([]domain.EventRef, error)
	Location(ctx context.Context, ev domain.EventRef) (string, error)
	Timetable(ctx context.Context, year int, ev domain.EventRef) ([]domain.RawRow, error)
}

// Locator resolves an event's location to the timezone its timetable is published in.
type Locator interface {
	Locate(ctx context.Context, slug, location string) (*time.Location, error)
}

// Store loads and persists whole season databases.
type Store interface {
	Load(ctx context.Context, series string, year int) (*domain.SeasonDatabase, error)
	Save(ctx context.Context, series string, year int, db *domain.SeasonDatabase) error
}

// New returns a Driver for the current season unless configured otherwise.
func New(source Source, locator Locator, store Store, opts ...Option) *Driver {
	d := &Driver{
		source:      source,
		locator:     locator,
		store:       store,
		classifier:  timetable.DefaultClassifier(),
		year:        time.Now().Year(),
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Driver struct {
	source      Source
	locator     Locator
	store       Store
	classifier  timetable.Classifier
	year        int
	dryRun      bool
	concurrency int
	logger      *slog.Logger
}

/* Driver Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type Option = func(d *Driver)

// WithYear configures the season to reconcile.
func WithYear(year int) Option {
	return func(d *Driver) { d.year = year }
}

// WithClassifier replaces the default session table.
func WithClassifier(c timetable.Classifier) Option {
	return func(d *Driver) { d.classifier = c }
}

// WithDryRun computes and reports everything but skips persistence.
func WithDryRun(dryRun bool) Option {
	return func(d *Driver) { d.dryRun = dryRun }
}

// WithLoadConcurrency bounds how many series databases are loaded at once.
func WithLoadConcurrency(n int) Option {
	return func(d *Driver) { d.concurrency = n }
}

// WithLogger configures the logger to use within the driver.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

/* Driver API
------------------------------------------------------------------------------------------------- */

// Run reconciles every event of the season, one at a time and in listing order. An event whose
// location, timetable or day headers cannot be resolved is aborted on its own; all loaded
// databases are persisted at the end regardless, including when ctx is cancelled mid-season.
func (d *Driver) Run(ctx context.Context) (domain.Report, error) {
	rep := domain.Report{Year: d.year}

	dbs, err := d.load(ctx)
	if err != nil {
		return rep, err
	}
	index, err := timetable.NewWeekendIndex(dbs)
	if err != nil {
		return rep, fmt.Errorf("indexing stored races: %w", err)
	}

	events, err := d.source.Events(ctx, d.year)
	if err != nil {
		return rep, fmt.Errorf("listing season %d: %w", d.year, err)
	}
	d.logger.Info("reconciling season", "year", d.year, "events", len(events), "series", len(dbs))

	for _, ev := range events {
		if ctx.Err() != nil {
			d.logger.Warn("stopping before all events were processed", "err", ctx.Err())
			break
		}
		rep.Events = append(rep.Events, d.processEvent(ctx, index, ev, &rep))
	}

	for _, u := range rep.Unmatched {
		d.logger.Warn("couldn't find weekend in database", "series", u.Series, "event", u.Event, "saturday", u.Saturday.String())
	}

	if d.dryRun {
		d.logger.Info("dry run, not persisting", "series", len(dbs))
		return rep, nil
	}
	// progress already merged must not be lost to a cancelled run
	return rep, d.persist(context.WithoutCancel(ctx), dbs)
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// processEvent resolves one event's schedule and merges it. Failures are recorded on the returned
// report entry and never propagate.
func (d *Driver) processEvent(ctx context.Context, index *timetable.WeekendIndex, ev domain.EventRef, rep *domain.Report) domain.EventReport {
	l := d.logger.With("event", ev.Slug)
	er := domain.EventReport{Slug: ev.Slug}
	abort := func(err error) domain.EventReport {
		er.Err = err
		l.Warn("skipping event", "err", err)
		return er
	}

	location, err := d.source.Location(ctx, ev)
	if err != nil {
		return abort(err)
	}
	er.Location = location

	loc, err := d.locator.Locate(ctx, ev.Slug, location)
	if err != nil {
		return abort(err)
	}
	er.Timezone = loc.String()
	l.Debug("resolved timezone", "location", location, "timezone", er.Timezone)

	rows, err := d.source.Timetable(ctx, d.year, ev)
	if err != nil {
		return abort(err)
	}
	es, err := d.classifier.BuildSchedule(rows, d.year, loc)
	if err != nil {
		return abort(err)
	}
	er.Schedule = es.Schedule
	er.Saturday = es.Saturday
	for _, rs := range es.Resolved {
		l.Debug("resolved session", "session", rs.CanonicalSession.String(), "start", timetable.FormatUTC(rs.Start))
	}

	rec, err := timetable.Reconcile(index, ev.Slug, es)
	if err != nil {
		return abort(err)
	}
	for _, a := range rec.Ambiguous {
		l.Warn("ambiguous weekend match", "series", a.Series, "saturday", a.Saturday.String(), "candidates", a.Candidates, "race", a.Race)
	}
	rep.Unmatched = append(rep.Unmatched, rec.Unmatched...)
	rep.Ambiguous = append(rep.Ambiguous, rec.Ambiguous...)
	er.Updated = rec.Updated
	l.Info("processed event", "timezone", er.Timezone, "saturday", es.Saturday.String(), "updated", rec.Updated)
	return er
}

// load reads the season of every series the classifier knows. Series without a stored season are
// skipped; their sessions end up unmatched.
func (d *Driver) load(ctx context.Context) (map[string]*domain.SeasonDatabase, error) {
	series := d.classifier.Series()
	loaded := make([]*domain.SeasonDatabase, len(series))

	g, gctx := errgroup.WithContext(ctx)
	if d.concurrency > 0 {
		g.SetLimit(d.concurrency)
	}
	for i, s := range series {
		i, s := i, s
		g.Go(func() error {
			db, err := d.store.Load(gctx, s, d.year)
			if errors.Is(err, domain.ErrNoDatabase) {
				d.logger.Warn("no season database", "series", s, "year", d.year)
				return nil
			}
			if err != nil {
				return fmt.Errorf("loading %s/%d: %w", s, d.year, err)
			}
			loaded[i] = db
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dbs := make(map[string]*domain.SeasonDatabase, len(series))
	for i, s := range series {
		if loaded[i] != nil {
			dbs[s] = loaded[i]
		}
	}
	return dbs, nil
}

// persist writes every loaded database back in full.
func (d *Driver) persist(ctx context.Context, dbs map[string]*domain.SeasonDatabase) error {
	series := make([]string, 0, len(dbs))
	for s := range dbs {
		series = append(series, s)
	}
	sort.Strings(series)

	var errs []error
	for _, s := range series {
		if err := d.store.Save(ctx, s, d.year, dbs[s]); err != nil {
			d.logger.Error("error persisting season", "series", s, "err", err)
			errs = append(errs, fmt.Errorf("saving %s/%d: %w", s, d.year, err))
			continue
		}
		d.logger.Debug("persisted season", "series", s, "races", len(dbs[s].Races))
	}
	return errors.Join(errs...)
}
