package timetable

import (
	"github.com/bcdxn/f1timetable/internal/domain"
)

// Merge overwrites the race's sessions with the freshly resolved ones and clears its pending
// marker. Session codes missing from sessions are dropped; no other field is touched.
func Merge(race *domain.Race, sessions domain.Sessions) error {
	if err := race.SetSessions(sessions); err != nil {
		return err
	}
	race.ClearPending()
	return nil
}
