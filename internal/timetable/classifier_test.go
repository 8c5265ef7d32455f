package timetable

import (
	"testing"

	"github.com/bcdxn/f1timetable/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		category string
		session  string
		expected domain.CanonicalSession
		outcome  Outcome
	}{
		{
			name:     "F1 numbered practice",
			category: "Formula 1",
			session:  "Practice 2",
			expected: domain.CanonicalSession{Series: "f1", Session: "fp2"},
			outcome:  Matched,
		},
		{
			name:     "F1 worded practice",
			category: "FORMULA 1 Formula 1",
			session:  "First Practice",
			expected: domain.CanonicalSession{Series: "f1", Session: "fp1"},
			outcome:  Matched,
		},
		{
			name:     "F1 sprint qualifying is not qualifying",
			category: "Formula 1",
			session:  "Sprint Qualifying",
			expected: domain.CanonicalSession{Series: "f1", Session: "sprintQualifying"},
			outcome:  Matched,
		},
		{
			name:     "F1 qualifying",
			category: "Formula 1",
			session:  "Qualifying",
			expected: domain.CanonicalSession{Series: "f1", Session: "qualifying"},
			outcome:  Matched,
		},
		{
			name:     "F1 grand prix",
			category: "Formula 1",
			session:  "Bahrain Grand Prix",
			expected: domain.CanonicalSession{Series: "f1", Session: "gp"},
			outcome:  Matched,
		},
		{
			name:     "F1 sprint victory excluded",
			category: "Formula 1",
			session:  "Sprint Victory",
			outcome:  Excluded,
		},
		{
			name:     "F2 group B qualifying excluded",
			category: "Formula 2",
			session:  "Qualifying Session (Group B)",
			outcome:  Excluded,
		},
		{
			name:     "F2 group A qualifying",
			category: "Formula 2",
			session:  "Qualifying Session (Group A)",
			expected: domain.CanonicalSession{Series: "f2", Session: "qualifying"},
			outcome:  Matched,
		},
		{
			name:     "F2 feature race",
			category: "Formula 2",
			session:  "Third Race",
			expected: domain.CanonicalSession{Series: "f2", Session: "feature"},
			outcome:  Matched,
		},
		{
			name:     "F3 second race",
			category: "Formula 3",
			session:  "Second Race",
			expected: domain.CanonicalSession{Series: "f3", Session: "race2"},
			outcome:  Matched,
		},
		{
			name:     "W Series race",
			category: "W Series",
			session:  "Race",
			expected: domain.CanonicalSession{Series: "wseries", Session: "race"},
			outcome:  Matched,
		},
		{
			name:     "support series unrecognized",
			category: "Porsche Mobil 1 Supercup",
			session:  "Practice",
			outcome:  Unrecognized,
		},
		{
			name:     "unknown F1 session unrecognized",
			category: "Formula 1",
			session:  "Drivers Parade",
			outcome:  Unrecognized,
		},
	}

	c := DefaultClassifier()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cs, outcome := c.Classify(tt.category, tt.session)
			if outcome != tt.outcome {
				t.Fatalf("expected outcome '%s' but found '%s'", tt.outcome, outcome)
			}
			if cs != tt.expected {
				t.Errorf("expected session '%s' but found '%s'", tt.expected, cs)
			}
			// classification is a pure function of its input
			again, outcomeAgain := c.Classify(tt.category, tt.session)
			if again != cs || outcomeAgain != outcome {
				t.Errorf("expected identical result on second classification")
			}
		})
	}
}

func TestClassifyExclusionPrecedence(t *testing.T) {
	c := NewClassifier(
		[]Pattern{{Category: "Formula 1", Session: "Qualifying"}},
		[]Rule{rule("Formula 1", "Qualifying", "f1", "qualifying")},
	)
	if _, outcome := c.Classify("Formula 1", "Qualifying"); outcome != Excluded {
		t.Errorf("expected outcome '%s' but found '%s'", Excluded, outcome)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	c := NewClassifier(nil, []Rule{
		rule("Formula 1", "Practice", "f1", "first"),
		rule("Formula 1", "Practice 1", "f1", "second"),
	})
	cs, _ := c.Classify("Formula 1", "Practice 1")
	if cs.Session != "first" {
		t.Errorf("expected session '%s' but found '%s'", "first", cs.Session)
	}
}

func TestClassifierSeries(t *testing.T) {
	series := DefaultClassifier().Series()
	expected := []string{"f1", "f2", "f3", "wseries"}
	if len(series) != len(expected) {
		t.Fatalf("expected %d series but found %d", len(expected), len(series))
	}
	for i := range expected {
		if series[i] != expected[i] {
			t.Errorf("expected series '%s' but found '%s'", expected[i], series[i])
		}
	}
}
