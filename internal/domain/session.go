package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Series codes partition the persisted season databases.
const (
	SeriesF1      = "f1"
	SeriesF2      = "f2"
	SeriesF3      = "f3"
	SeriesWSeries = "wseries"
)

// UTCLayout is the format every session start time is stored in: UTC with a literal Z suffix.
const UTCLayout = "2006-01-02T15:04:05Z"

// CanonicalSession is the stable identifier of a session independent of how the publisher words
// it, e.g. {Series: "f1", Session: "fp1"}.
type CanonicalSession struct {
	Series  string
	Session string
}

func (c CanonicalSession) String() string {
	return c.Series + "/" + c.Session
}

// RawRow is one row of a published timetable. Header rows only carry the day in Category.
type RawRow struct {
	Category string // e.g. "Formula 1" or, for a header row, "Friday 26 March"
	Session  string // e.g. "Practice 1"
	Time     string // e.g. "11:30-12:30"
}

// IsHeader reports whether the row is a day header: a non-empty first cell and nothing else.
func (r RawRow) IsHeader() bool {
	return r.Category != "" && r.Session == "" && r.Time == ""
}

// EventRef identifies one race weekend of the season listing.
type EventRef struct {
	Slug string // machine readable name, e.g. "Bahrain"
	Path string // path of the event page relative to the publisher's base URL
}

// SessionTime is a single session code with its start time formatted with UTCLayout.
type SessionTime struct {
	Code  string
	Start string
}

// Sessions maps session codes to start times. It is a map semantically but keeps the order in
// which codes were first set so that records are written back the way they were read.
type Sessions []SessionTime

// Get returns the start time of the given session code.
func (s Sessions) Get(code string) (string, bool) {
	for _, st := range s {
		if st.Code == code {
			return st.Start, true
		}
	}
	return "", false
}

// Set assigns the start time of a session code, keeping its position if already present.
func (s *Sessions) Set(code, start string) {
	for i := range *s {
		if (*s)[i].Code == code {
			(*s)[i].Start = start
			return
		}
	}
	*s = append(*s, SessionTime{Code: code, Start: start})
}

// Map returns the sessions as a plain map.
func (s Sessions) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, st := range s {
		m[st.Code] = st.Start
	}
	return m
}

func (s Sessions) MarshalJSON() ([]byte, error) {
	o := newObject()
	for _, st := range s {
		v, err := json.Marshal(st.Start)
		if err != nil {
			return nil, err
		}
		o.set(st.Code, v)
	}
	return o.MarshalJSON()
}

func (s *Sessions) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = nil
		return nil
	}
	var o object
	if err := o.UnmarshalJSON(b); err != nil {
		return err
	}
	out := make(Sessions, 0, len(o.keys))
	for _, k := range o.keys {
		var start string
		if err := json.Unmarshal(o.vals[k], &start); err != nil {
			return fmt.Errorf("session %q: %w", k, err)
		}
		out = append(out, SessionTime{Code: k, Start: start})
	}
	*s = out
	return nil
}

// Schedule holds the resolved sessions of one event keyed by series code.
type Schedule map[string]Sessions

// Set records the start time of a canonical session.
func (s Schedule) Set(cs CanonicalSession, start string) {
	sessions := s[cs.Series]
	sessions.Set(cs.Session, start)
	s[cs.Series] = sessions
}

// SeriesCodes returns the series present in the schedule in sorted order.
func (s Schedule) SeriesCodes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
