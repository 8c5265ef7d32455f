package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/golang-sql/civil"
)

// rangeSeparators split a published time range into start and end; some pages use an en dash.
var rangeSeparators = []string{"-", "\u2013"}

// StartTime resolves the start of a "HH:MM-HH:MM" time range on the given date in loc and returns
// it in UTC. Wall clock times that do not exist or are repeated because of a daylight saving
// transition are resolved the way time.Date does.
func StartTime(date civil.Date, loc *time.Location, timeRange string) (time.Time, error) {
	start := timeRange
	for _, sep := range rangeSeparators {
		if i := strings.Index(start, sep); i >= 0 {
			start = start[:i]
		}
	}
	hh, mm, ok := strings.Cut(strings.TrimSpace(start), ":")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedTime, timeRange)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour in %q", domain.ErrMalformedTime, timeRange)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: minute in %q", domain.ErrMalformedTime, timeRange)
	}
	local := time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, loc)
	return local.UTC(), nil
}

// FormatUTC formats an instant the way stored sessions are written, e.g. "2021-03-26T11:30:00Z".
func FormatUTC(t time.Time) string {
	return t.UTC().Format(domain.UTCLayout)
}

// ReferenceSaturday returns the Saturday of the race weekend a date belongs to: the date shifted
// by 5 minus its Monday-based weekday. A Sunday maps to the day before.
func ReferenceSaturday(d civil.Date) civil.Date {
	weekday := (int(d.In(time.UTC).Weekday()) + 6) % 7
	return d.AddDays(5 - weekday)
}

// storedDate returns the calendar date of a stored session timestamp, ignoring any Z suffix.
func storedDate(ts string) (civil.Date, bool) {
	ts = strings.TrimSuffix(strings.TrimSpace(ts), "Z")
	if len(ts) < len("2006-01-02") {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(ts[:len("2006-01-02")])
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}
