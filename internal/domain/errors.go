package domain

import "errors"

var (
	// ErrMalformedHeader is returned when a timetable day header cannot be parsed into a date.
	ErrMalformedHeader = errors.New("malformed day header")
	// ErrMalformedTime is returned when a session's time range has no parsable start time.
	ErrMalformedTime = errors.New("malformed session time")
	// ErrUnresolvedLocation is returned when an event's timezone cannot be determined.
	ErrUnresolvedLocation = errors.New("unresolved location")
	// ErrNoDatabase is returned by storage when a series has no persisted season.
	ErrNoDatabase = errors.New("no season database")
	// ErrMalformedDatabase is returned when a persisted season does not have the expected shape.
	ErrMalformedDatabase = errors.New("malformed season database")
)
