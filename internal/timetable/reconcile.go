package timetable

import (
	"fmt"

	"github.com/bcdxn/f1timetable/internal/domain"
)

// Reconciliation is the outcome of merging one event's schedule into the stored races.
type Reconciliation struct {
	Updated   []string // series whose race was overwritten
	Unmatched []domain.Unmatched
	Ambiguous []domain.AmbiguousMatch
}

// Reconcile merges each series of an event's schedule into the race of that series stored on the
// event's reference Saturday. Series without such a race are reported as unmatched and left
// untouched; series with several are reported as ambiguous and the first race is updated.
func Reconcile(index *WeekendIndex, slug string, es EventSchedule) (Reconciliation, error) {
	var rec Reconciliation
	for _, series := range es.Schedule.SeriesCodes() {
		m := index.Match(series, es.Saturday)
		switch m.Outcome {
		case NoMatch:
			rec.Unmatched = append(rec.Unmatched, domain.Unmatched{
				Series:   series,
				Event:    slug,
				Saturday: es.Saturday,
			})
			continue
		case AmbiguousMatch:
			rec.Ambiguous = append(rec.Ambiguous, domain.AmbiguousMatch{
				Series:     series,
				Event:      slug,
				Saturday:   es.Saturday,
				Candidates: m.Candidates,
				Race:       m.Race.Label(),
			})
		}
		if err := Merge(m.Race, es.Schedule[series]); err != nil {
			return rec, fmt.Errorf("merging %s into race %d: %w", series, m.Index, err)
		}
		rec.Updated = append(rec.Updated, series)
	}
	return rec, nil
}
