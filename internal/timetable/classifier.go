// Package timetable normalizes published race weekend timetables into UTC session schedules and
// reconciles them with the races already stored for each series.
//
// Nothing in this package performs I/O: rows come in pre-parsed, timezones come in resolved, and
// stored races are mutated in memory for the caller to persist.
package timetable

import (
	"strings"

	"github.com/bcdxn/f1timetable/internal/domain"
)

// Outcome is the result of classifying a timetable row.
type Outcome int

const (
	Unrecognized Outcome = iota // no rule matched; the row is skipped
	Excluded                    // an exclusion rule matched; the row is dropped
	Matched                     // a mapping rule matched
)

func (o Outcome) String() string {
	switch o {
	case Excluded:
		return "excluded"
	case Matched:
		return "matched"
	default:
		return "unrecognized"
	}
}

// Pattern matches a row when Category is contained in the row's category text and Session is
// contained in the row's session text.
type Pattern struct {
	Category string
	Session  string
}

func (p Pattern) matches(category, session string) bool {
	return strings.Contains(category, p.Category) && strings.Contains(session, p.Session)
}

// Rule maps the rows matching a pattern to a canonical session.
type Rule struct {
	Pattern
	Target domain.CanonicalSession
}

// Classifier maps loosely labelled timetable rows to canonical sessions. Exclusions take
// precedence over rules; rules are evaluated in order and the first match wins.
type Classifier struct {
	exclusions []Pattern
	rules      []Rule
}

// NewClassifier returns a classifier over the given exclusion patterns and ordered rules.
func NewClassifier(exclusions []Pattern, rules []Rule) Classifier {
	return Classifier{exclusions: exclusions, rules: rules}
}

// DefaultClassifier returns the classifier for the formula1.com timetable wording.
func DefaultClassifier() Classifier {
	return NewClassifier(DefaultExclusions, DefaultRules)
}

// Classify returns the canonical session of a row's category and session text.
func (c Classifier) Classify(category, session string) (domain.CanonicalSession, Outcome) {
	for _, p := range c.exclusions {
		if p.matches(category, session) {
			return domain.CanonicalSession{}, Excluded
		}
	}
	for _, r := range c.rules {
		if r.matches(category, session) {
			return r.Target, Matched
		}
	}
	return domain.CanonicalSession{}, Unrecognized
}

// Series returns the distinct series codes the classifier can produce, in rule order.
func (c Classifier) Series() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.rules {
		if !seen[r.Target.Series] {
			seen[r.Target.Series] = true
			out = append(out, r.Target.Series)
		}
	}
	return out
}

func rule(category, session, series, code string) Rule {
	return Rule{
		Pattern: Pattern{Category: category, Session: session},
		Target:  domain.CanonicalSession{Series: series, Session: code},
	}
}

// DefaultExclusions are rows that would otherwise be picked up by a broader rule.
var DefaultExclusions = []Pattern{
	{Category: "Formula 1", Session: "Sprint Victory"},
	{Category: "Formula 2", Session: "Qualifying Session (Group B)"},
}

// DefaultRules is ordered: "Sprint" must come before "Qualifying" so that sprint qualifying is
// not mistaken for the main qualifying session.
var DefaultRules = []Rule{
	rule("Formula 1", "First Practice", domain.SeriesF1, "fp1"),
	rule("Formula 1", "Practice 1", domain.SeriesF1, "fp1"),
	rule("Formula 1", "Second Practice", domain.SeriesF1, "fp2"),
	rule("Formula 1", "Practice 2", domain.SeriesF1, "fp2"),
	rule("Formula 1", "Third Practice", domain.SeriesF1, "fp3"),
	rule("Formula 1", "Practice 3", domain.SeriesF1, "fp3"),
	rule("Formula 1", "Sprint", domain.SeriesF1, "sprintQualifying"),
	rule("Formula 1", "Qualifying", domain.SeriesF1, "qualifying"),
	rule("Formula 1", "Grand Prix", domain.SeriesF1, "gp"),

	rule("Formula 2", "Practice", domain.SeriesF2, "practice"),
	rule("Formula 2", "Qualifying", domain.SeriesF2, "qualifying"),
	rule("Formula 2", "First Race", domain.SeriesF2, "sprint1"),
	rule("Formula 2", "Second Race", domain.SeriesF2, "sprint2"),
	rule("Formula 2", "Third Race", domain.SeriesF2, "feature"),

	rule("Formula 3", "Practice", domain.SeriesF3, "practice"),
	rule("Formula 3", "Qualifying", domain.SeriesF3, "qualifying"),
	rule("Formula 3", "First Race", domain.SeriesF3, "race1"),
	rule("Formula 3", "Second Race", domain.SeriesF3, "race2"),
	rule("Formula 3", "Third Race", domain.SeriesF3, "race3"),

	rule("W Series", "Practice", domain.SeriesWSeries, "practice1"),
	rule("W Series", "Qualifying", domain.SeriesWSeries, "qualifying"),
	rule("W Series", "Race", domain.SeriesWSeries, "race"),
}
