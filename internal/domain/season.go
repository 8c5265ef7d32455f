package domain

import (
	"encoding/json"
	"fmt"
)

const (
	// PendingKey is the race field marking its session times as provisional.
	PendingKey = "tbc"

	sessionsKey = "sessions"
	racesKey    = "races"
)

// Race is one persisted race record of a series' season database. Only the sessions and the
// pending marker are interpreted; every other field (round, circuit, slug, ...) is carried
// verbatim and written back in its original position.
type Race struct {
	obj object
}

// NewRace builds a race record with the given sessions; mostly useful in tests.
func NewRace(sessions Sessions) (*Race, error) {
	r := &Race{obj: newObject()}
	if err := r.SetSessions(sessions); err != nil {
		return nil, err
	}
	return r, nil
}

// Sessions decodes the race's current sessions field. A race without sessions has none.
func (r *Race) Sessions() (Sessions, error) {
	raw, ok := r.obj.get(sessionsKey)
	if !ok {
		return nil, nil
	}
	var s Sessions
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: race sessions: %v", ErrMalformedDatabase, err)
	}
	return s, nil
}

// SetSessions replaces the whole sessions field.
func (r *Race) SetSessions(s Sessions) error {
	if s == nil {
		s = Sessions{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.obj.set(sessionsKey, raw)
	return nil
}

// Pending reports whether the race carries the pending-confirmation marker.
func (r *Race) Pending() bool {
	_, ok := r.obj.get(PendingKey)
	return ok
}

// ClearPending removes the pending-confirmation marker if present.
func (r *Race) ClearPending() {
	r.obj.delete(PendingKey)
}

// Field returns the raw value of any field of the record.
func (r *Race) Field(key string) (json.RawMessage, bool) {
	return r.obj.get(key)
}

// SetField sets the raw value of any field of the record.
func (r *Race) SetField(key string, raw json.RawMessage) {
	r.obj.set(key, raw)
}

// Label returns a short human readable name for the race, used in logs.
func (r *Race) Label() string {
	for _, key := range []string{"slug", "name", "localeKey"} {
		raw, ok := r.obj.get(key)
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

func (r Race) MarshalJSON() ([]byte, error) {
	return r.obj.MarshalJSON()
}

func (r *Race) UnmarshalJSON(b []byte) error {
	return r.obj.UnmarshalJSON(b)
}

// SeasonDatabase is the persisted season of one series: an object with an ordered races list.
// Top level fields other than races are preserved as-is.
type SeasonDatabase struct {
	Races []*Race
	obj   object
}

// NewSeasonDatabase builds a database holding the given races.
func NewSeasonDatabase(races ...*Race) *SeasonDatabase {
	return &SeasonDatabase{Races: races, obj: newObject()}
}

func (d SeasonDatabase) MarshalJSON() ([]byte, error) {
	races := d.Races
	if races == nil {
		races = []*Race{}
	}
	raw, err := json.Marshal(races)
	if err != nil {
		return nil, err
	}
	o := d.obj.clone()
	o.set(racesKey, raw)
	return o.MarshalJSON()
}

func (d *SeasonDatabase) UnmarshalJSON(b []byte) error {
	var o object
	if err := o.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDatabase, err)
	}
	raw, ok := o.get(racesKey)
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrMalformedDatabase, racesKey)
	}
	var races []*Race
	if err := json.Unmarshal(raw, &races); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedDatabase, racesKey, err)
	}
	d.Races = races
	d.obj = o
	return nil
}
