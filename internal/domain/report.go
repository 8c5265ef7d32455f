package domain

import (
	"github.com/golang-sql/civil"
)

// Report summarizes one reconciliation run over a season.
type Report struct {
	Year      int
	Events    []EventReport
	Unmatched []Unmatched
	Ambiguous []AmbiguousMatch
}

// Aborted returns the events whose processing was abandoned.
func (r Report) Aborted() []EventReport {
	var out []EventReport
	for _, e := range r.Events {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// EventReport is the outcome of processing one race weekend.
type EventReport struct {
	Slug     string
	Location string
	Timezone string
	Saturday civil.Date // zero when the timetable had no session rows
	Schedule Schedule
	Updated  []string // series whose stored race was overwritten
	Err      error    // non-nil when the event was aborted
}

// Unmatched is a series/event pair for which no stored race lands on the reference Saturday.
type Unmatched struct {
	Series   string
	Event    string
	Saturday civil.Date
}

// AmbiguousMatch records that more than one stored race of a series lands on the same reference
// Saturday. The first race in database order is the one that gets updated.
type AmbiguousMatch struct {
	Series     string
	Event      string
	Saturday   civil.Date
	Candidates []int  // indexes into the series' races
	Race       string // label of the race that was updated
}
