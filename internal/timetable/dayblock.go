package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/golang-sql/civil"
)

// DayBlock tracks the current day while walking a timetable. Only header rows carry the date, so
// every session row inherits the date of the most recent header seen. The zero state has no
// current date.
type DayBlock struct {
	year int
	date civil.Date
	set  bool
}

// NewDayBlock returns an accumulator for a timetable of the given season year.
func NewDayBlock(year int) *DayBlock {
	return &DayBlock{year: year}
}

// Header parses a day header such as "Friday 26 March" and makes it the current date.
func (b *DayBlock) Header(text string) error {
	d, err := ParseHeaderDate(text, b.year)
	if err != nil {
		return err
	}
	b.date = d
	b.set = true
	return nil
}

// Date returns the current date, if a header has been seen.
func (b *DayBlock) Date() (civil.Date, bool) {
	return b.date, b.set
}

// ParseHeaderDate parses a weekday-prefixed "Weekday Day Month" header for the given year. The
// weekday is ignored and any non-digit in the day token (e.g. "26th") is dropped.
func ParseHeaderDate(text string, year int) (civil.Date, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return civil.Date{}, fmt.Errorf("%w: %q", domain.ErrMalformedHeader, text)
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, fields[1])
	day, err := strconv.Atoi(digits)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: day in %q", domain.ErrMalformedHeader, text)
	}
	m, err := time.Parse("January", fields[2])
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: month in %q", domain.ErrMalformedHeader, text)
	}
	d := civil.Date{Year: year, Month: m.Month(), Day: day}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: no such day %q in %d", domain.ErrMalformedHeader, text, year)
	}
	return d, nil
}
