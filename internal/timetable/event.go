package timetable

import (
	"time"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/golang-sql/civil"
)

// ResolvedSession is a canonical session with its start instant in UTC.
type ResolvedSession struct {
	domain.CanonicalSession
	Start time.Time
}

// EventSchedule is the normalized timetable of one event.
type EventSchedule struct {
	Schedule    domain.Schedule
	Resolved    []ResolvedSession // in document order, including rows later overwritten
	Saturday    civil.Date
	HasSaturday bool // false when no session row followed a day header
}

// Builder folds the rows of one event's timetable, in document order, into an EventSchedule.
// A Builder must not be reused across events.
type Builder struct {
	classifier Classifier
	loc        *time.Location
	days       *DayBlock
	result     EventSchedule
}

// NewBuilder returns a builder for an event of the given season year held in loc.
func NewBuilder(c Classifier, year int, loc *time.Location) *Builder {
	return &Builder{
		classifier: c,
		loc:        loc,
		days:       NewDayBlock(year),
		result:     EventSchedule{Schedule: domain.Schedule{}},
	}
}

// Add consumes the next row. Rows before the first header are ignored. The returned error is
// fatal for the event: either a header could not be parsed or a session time could not be read.
func (b *Builder) Add(row domain.RawRow) error {
	if row.IsHeader() {
		return b.days.Header(row.Category)
	}
	date, ok := b.days.Date()
	if !ok {
		return nil
	}
	if !b.result.HasSaturday {
		b.result.Saturday = ReferenceSaturday(date)
		b.result.HasSaturday = true
	}
	cs, outcome := b.classifier.Classify(row.Category, row.Session)
	if outcome != Matched {
		return nil
	}
	start, err := StartTime(date, b.loc, row.Time)
	if err != nil {
		return err
	}
	b.result.Resolved = append(b.result.Resolved, ResolvedSession{CanonicalSession: cs, Start: start})
	b.result.Schedule.Set(cs, FormatUTC(start))
	return nil
}

// Result returns what has been folded so far.
func (b *Builder) Result() EventSchedule {
	return b.result
}

// BuildSchedule folds all rows of one event. On error no partial schedule is returned.
func (c Classifier) BuildSchedule(rows []domain.RawRow, year int, loc *time.Location) (EventSchedule, error) {
	b := NewBuilder(c, year, loc)
	for _, row := range rows {
		if err := b.Add(row); err != nil {
			return EventSchedule{}, err
		}
	}
	return b.Result(), nil
}
