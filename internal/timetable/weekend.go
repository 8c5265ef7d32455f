package timetable

import (
	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/golang-sql/civil"
)

// MatchOutcome describes how many stored races land on a reference Saturday.
type MatchOutcome int

const (
	NoMatch MatchOutcome = iota
	SingleMatch
	AmbiguousMatch
)

// Match is the stored race selected for a series and reference Saturday. When the outcome is
// AmbiguousMatch, Race is the first candidate in database order.
type Match struct {
	Outcome    MatchOutcome
	Race       *domain.Race
	Index      int
	Candidates []int
}

type indexedRace struct {
	race  *domain.Race
	dates map[civil.Date]bool
}

// WeekendIndex finds the stored race of each series whose sessions fall on a given Saturday.
// The session dates are captured when the index is built, so races rewritten later in the run are
// still matched by the sessions they were loaded with.
type WeekendIndex struct {
	series map[string][]indexedRace
}

// NewWeekendIndex snapshots the session dates of every race in the given databases. Timestamps
// that cannot be read as dates never match.
func NewWeekendIndex(dbs map[string]*domain.SeasonDatabase) (*WeekendIndex, error) {
	w := &WeekendIndex{series: make(map[string][]indexedRace, len(dbs))}
	for series, db := range dbs {
		races := make([]indexedRace, 0, len(db.Races))
		for _, race := range db.Races {
			ir := indexedRace{race: race, dates: make(map[civil.Date]bool)}
			if race != nil {
				sessions, err := race.Sessions()
				if err != nil {
					return nil, err
				}
				for _, st := range sessions {
					if d, ok := storedDate(st.Start); ok {
						ir.dates[d] = true
					}
				}
			}
			races = append(races, ir)
		}
		w.series[series] = races
	}
	return w, nil
}

// Has reports whether a database was loaded for the series.
func (w *WeekendIndex) Has(series string) bool {
	_, ok := w.series[series]
	return ok
}

// Match returns the race of the series with at least one stored session on saturday.
func (w *WeekendIndex) Match(series string, saturday civil.Date) Match {
	m := Match{Outcome: NoMatch, Index: -1}
	for i, ir := range w.series[series] {
		if !ir.dates[saturday] {
			continue
		}
		m.Candidates = append(m.Candidates, i)
		if m.Race == nil {
			m.Race = ir.race
			m.Index = i
		}
	}
	switch {
	case len(m.Candidates) == 1:
		m.Outcome = SingleMatch
	case len(m.Candidates) > 1:
		m.Outcome = AmbiguousMatch
	}
	return m
}
