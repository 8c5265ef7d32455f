// Package locate turns an event's free text location into the IANA timezone its timetable is
// published in.
package locate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bcdxn/f1timetable/internal/domain"
)

// Geocoder resolves a free text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, error)
}

// ZoneFinder returns the IANA timezone name at the given coordinates, or "" when there is none.
type ZoneFinder interface {
	GetTimezoneName(lng, lat float64) string
}

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// New returns a Resolver that geocodes locations and looks their zone up with finder.
func New(geocoder Geocoder, finder ZoneFinder, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		geocoder:  geocoder,
		finder:    finder,
		overrides: make(map[string]string),
		cache:     make(map[string]*time.Location),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolver resolves event locations to timezones. Results are cached by location text so that a
// venue is geocoded once per run.
type Resolver struct {
	geocoder  Geocoder
	finder    ZoneFinder
	overrides map[string]string // event slug -> IANA zone
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]*time.Location
}

type ResolverOption = func(r *Resolver)

// WithOverrides pins the timezone of events by slug, bypassing geocoding.
func WithOverrides(overrides map[string]string) ResolverOption {
	return func(r *Resolver) {
		for slug, zone := range overrides {
			r.overrides[slug] = zone
		}
	}
}

// WithLogger configures the logger to use within the resolver.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// Locate returns the timezone of an event. Every failure wraps domain.ErrUnresolvedLocation.
func (r *Resolver) Locate(ctx context.Context, slug, location string) (*time.Location, error) {
	if zone, ok := r.overrides[slug]; ok {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("%w: override %q for %s: %v", domain.ErrUnresolvedLocation, zone, slug, err)
		}
		return loc, nil
	}

	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return nil, fmt.Errorf("%w: empty location for %s", domain.ErrUnresolvedLocation, slug)
	}
	r.mu.Lock()
	loc, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return loc, nil
	}

	p, err := r.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: geocoding %q: %v", domain.ErrUnresolvedLocation, location, err)
	}
	zone := r.finder.GetTimezoneName(p.Lng, p.Lat)
	if zone == "" {
		return nil, fmt.Errorf("%w: no timezone at %.4f,%.4f", domain.ErrUnresolvedLocation, p.Lat, p.Lng)
	}
	loc, err = time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %q: %v", domain.ErrUnresolvedLocation, zone, err)
	}
	r.logger.Debug("resolved location", "event", slug, "location", location, "lat", p.Lat, "lng", p.Lng, "timezone", zone)

	r.mu.Lock()
	r.cache[key] = loc
	r.mu.Unlock()
	return loc, nil
}
