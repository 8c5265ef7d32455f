// Package report renders the outcome of a reconciliation run, both as the plain schedule file and
// as a styled console summary.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/bcdxn/f1timetable/internal/report/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	s = styles.Default()
)

/* Schedule File
------------------------------------------------------------------------------------------------- */

// WriteText writes the schedule file: for every event its slug and a blank line, then each series
// in sorted order followed by its sessions as JSON indented with four tabs. Aborted events only get
// their slug.
func WriteText(w io.Writer, rep domain.Report) error {
	bw := bufio.NewWriter(w)
	for _, ev := range rep.Events {
		fmt.Fprintf(bw, "%s\n\n", ev.Slug)
		if ev.Err != nil {
			continue
		}
		for _, series := range ev.Schedule.SeriesCodes() {
			b, err := json.MarshalIndent(ev.Schedule[series], "", "\t\t\t\t")
			if err != nil {
				return fmt.Errorf("%s %s: %w", ev.Slug, series, err)
			}
			fmt.Fprintf(bw, "%s\n%s\n", series, b)
		}
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

/* Console Summary
------------------------------------------------------------------------------------------------- */

// Render returns the console summary of a run.
func Render(rep domain.Report) string {
	var b strings.Builder
	b.WriteString(s.TitleBar.Render(fmt.Sprintf("F1 timetable %d", rep.Year)))
	b.WriteString("\n")

	for _, ev := range rep.Events {
		b.WriteString(renderEvent(ev))
		b.WriteString("\n")
	}

	if len(rep.Ambiguous) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Purple.Render("WARNING: Several races share a weekend, the first was updated:"))
		b.WriteString("\n")
		for _, a := range rep.Ambiguous {
			fmt.Fprintf(&b, "%s\n", s.Series.Render(fmt.Sprintf("(%s, %s, %s) races %v", a.Series, a.Event, a.Saturday, a.Candidates)))
		}
	}

	if len(rep.Unmatched) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Yellow.Render("WARNING: Couldn't find weekend in DB:"))
		b.WriteString("\n")
		for _, u := range rep.Unmatched {
			fmt.Fprintf(&b, "%s\n", s.Series.Render(fmt.Sprintf("(%s, %s, %s)", u.Series, u.Event, u.Saturday)))
		}
	}

	return s.Doc.Render(b.String())
}

func renderEvent(ev domain.EventReport) string {
	title := s.Event.Render(ev.Slug)
	if ev.Err != nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", s.Red.Render("skipped: "+ev.Err.Error()))
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, title, " ", s.Subtle.Render(ev.Timezone)),
	}
	updated := make(map[string]bool, len(ev.Updated))
	for _, series := range ev.Updated {
		updated[series] = true
	}
	for _, series := range ev.Schedule.SeriesCodes() {
		status := s.Yellow.Render("not stored")
		if updated[series] {
			status = s.Green.Render("updated")
		}
		line := fmt.Sprintf("%-8s %d sessions ", series, len(ev.Schedule[series]))
		lines = append(lines, s.Series.Render(line+status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
