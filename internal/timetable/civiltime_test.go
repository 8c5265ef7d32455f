package timetable

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/golang-sql/civil"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("unable to load location %s: %v", name, err)
	}
	return loc
}

func TestParseHeaderDate(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected civil.Date
		err      error
	}{
		{name: "plain", header: "Friday 26 March", expected: civil.Date{Year: 2021, Month: time.March, Day: 26}},
		{name: "ordinal suffix", header: "Sunday 28th March", expected: civil.Date{Year: 2021, Month: time.March, Day: 28}},
		{name: "extra spacing", header: "Saturday  27  March ", expected: civil.Date{Year: 2021, Month: time.March, Day: 27}},
		{name: "non numeric day", header: "Friday TBC March", err: domain.ErrMalformedHeader},
		{name: "unknown month", header: "Friday 26 Marzo", err: domain.ErrMalformedHeader},
		{name: "too short", header: "Friday", err: domain.ErrMalformedHeader},
		{name: "no such day", header: "Monday 30 February", err: domain.ErrMalformedHeader},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := ParseHeaderDate(tt.header, 2021)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("expected error '%v' but found '%v'", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != tt.expected {
				t.Errorf("expected date '%s' but found '%s'", tt.expected, d)
			}
		})
	}
}

func TestParseHeaderDateUsesGivenYear(t *testing.T) {
	d, err := ParseHeaderDate("Sunday 29 February", 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2024 {
		t.Errorf("expected year %d but found %d", 2024, d.Year)
	}
}

func TestDayBlock(t *testing.T) {
	b := NewDayBlock(2021)
	if _, ok := b.Date(); ok {
		t.Fatalf("expected no current date before the first header")
	}
	if err := b.Header("Saturday 27 March"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Header("Friday 26 March"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := b.Date()
	if !ok || d.Day != 26 {
		t.Errorf("expected the most recent header to win but found %s", d)
	}
	if err := b.Header("Friday x March"); !errors.Is(err, domain.ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader but found %v", err)
	}
}

func TestStartTime(t *testing.T) {
	tests := []struct {
		name      string
		date      civil.Date
		zone      string
		timeRange string
		expected  string
	}{
		{
			name:      "Bahrain",
			date:      civil.Date{Year: 2021, Month: time.March, Day: 26},
			zone:      "Asia/Bahrain",
			timeRange: "14:30-15:30",
			expected:  "2021-03-26T11:30:00Z",
		},
		{
			name:      "Imola summer time",
			date:      civil.Date{Year: 2021, Month: time.April, Day: 18},
			zone:      "Europe/Rome",
			timeRange: "15:00 - 17:00",
			expected:  "2021-04-18T13:00:00Z",
		},
		{
			name:      "Brazil crosses midnight UTC",
			date:      civil.Date{Year: 2021, Month: time.November, Day: 13},
			zone:      "America/Sao_Paulo",
			timeRange: "22:30-23:00",
			expected:  "2021-11-14T01:30:00Z",
		},
		{
			name:      "en dash separator",
			date:      civil.Date{Year: 2021, Month: time.July, Day: 18},
			zone:      "Europe/London",
			timeRange: "15:00–17:00",
			expected:  "2021-07-18T14:00:00Z",
		},
		{
			name:      "start only",
			date:      civil.Date{Year: 2021, Month: time.December, Day: 12},
			zone:      "Asia/Dubai",
			timeRange: "17:00",
			expected:  "2021-12-12T13:00:00Z",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			start, err := StartTime(tt.date, mustLoad(t, tt.zone), tt.timeRange)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := FormatUTC(start); got != tt.expected {
				t.Errorf("expected start '%s' but found '%s'", tt.expected, got)
			}
		})
	}
}

func TestStartTimeMalformed(t *testing.T) {
	for _, timeRange := range []string{"", "TBC", "25:00-26:00", "14:75-15:00", "14-15"} {
		_, err := StartTime(civil.Date{Year: 2021, Month: time.March, Day: 26}, time.UTC, timeRange)
		if !errors.Is(err, domain.ErrMalformedTime) {
			t.Errorf("expected ErrMalformedTime for %q but found %v", timeRange, err)
		}
	}
}

// Converting back through the zone must reproduce the published wall clock on the header date.
func TestStartTimeRoundTrip(t *testing.T) {
	zones := []string{"Europe/Amsterdam", "Australia/Melbourne", "America/Mexico_City", "Asia/Tokyo", "UTC"}
	dates := []civil.Date{
		{Year: 2021, Month: time.March, Day: 13},
		{Year: 2021, Month: time.June, Day: 5},
		{Year: 2021, Month: time.October, Day: 30},
	}
	for _, zone := range zones {
		loc := mustLoad(t, zone)
		for _, d := range dates {
			for hour := 0; hour < 24; hour++ {
				for _, minute := range []int{0, 1, 30, 59} {
					tr := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04") + "-23:59"
					start, err := StartTime(d, loc, tr)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if start.Location() != time.UTC {
						t.Fatalf("expected a UTC instant")
					}
					local := start.In(loc)
					if local.Hour() != hour || local.Minute() != minute || civil.DateOf(local) != d {
						t.Errorf("%s %s %s: round trip produced %s", zone, d, tr, local)
					}
				}
			}
		}
	}
}

func TestReferenceSaturday(t *testing.T) {
	saturday := civil.Date{Year: 2021, Month: time.March, Day: 27}
	tests := []struct {
		name string
		date civil.Date
	}{
		{name: "Thursday", date: civil.Date{Year: 2021, Month: time.March, Day: 25}},
		{name: "Friday", date: civil.Date{Year: 2021, Month: time.March, Day: 26}},
		{name: "Saturday", date: saturday},
		{name: "Sunday", date: civil.Date{Year: 2021, Month: time.March, Day: 28}},
		{name: "Monday", date: civil.Date{Year: 2021, Month: time.March, Day: 22}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReferenceSaturday(tt.date); got != saturday {
				t.Errorf("expected '%s' but found '%s'", saturday, got)
			}
		})
	}
}
