package f1web

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/bcdxn/f1timetable/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const testEventMarker = "Pre-Season-Test"

var (
	// The event page embeds structured data with the venue address on a single line, e.g.
	// "address": "Bahrain International Circuit, Sakhir",
	addressRe = regexp.MustCompile(`"address"\s*:\s*("(?:[^"\\]|\\.)*")`)
)

// parseEventList returns the events linked from the season listing in document order. Events are
// the anchors carrying both the event-item-wrapper and event-item-link classes.
func parseEventList(body string) ([]domain.EventRef, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	var events []domain.EventRef
	seen := make(map[string]bool)
	walk(doc, func(n *html.Node) {
		if n.DataAtom != atom.A || !hasClasses(n, "event-item-wrapper", "event-item-link") {
			return
		}
		href := attr(n, "href")
		slug := eventSlug(href)
		if slug == "" || seen[slug] || strings.Contains(slug, testEventMarker) {
			return
		}
		seen[slug] = true
		events = append(events, domain.EventRef{Slug: slug, Path: href})
	})
	return events, nil
}

// eventSlug returns the last path segment of an event link without its extension, e.g.
// "/en/racing/2021/Bahrain.html" -> "Bahrain".
func eventSlug(href string) string {
	base := path.Base(strings.TrimRight(href, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// parseAddress returns the first "address" value found on the event page.
func parseAddress(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		if !strings.Contains(line, `"address"`) {
			continue
		}
		m := addressRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		address, err := strconv.Unquote(m[1])
		if err != nil || strings.TrimSpace(address) == "" {
			continue
		}
		return strings.TrimSpace(address), true
	}
	return "", false
}

// parseTimetable returns one row per table row that has data cells. Missing cells are left empty
// so that a row with only its first cell reads as a day header.
func parseTimetable(body string) ([]domain.RawRow, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	var rows []domain.RawRow
	walk(doc, func(n *html.Node) {
		if n.DataAtom != atom.Tr {
			return
		}
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Td {
				cells = append(cells, text(c))
			}
		}
		if len(cells) == 0 {
			return
		}
		for len(cells) < 3 {
			cells = append(cells, "")
		}
		rows = append(rows, domain.RawRow{Category: cells[0], Session: cells[1], Time: cells[2]})
	})
	return rows, nil
}

// walk visits every node in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClasses(n *html.Node, classes ...string) bool {
	have := strings.Fields(attr(n, "class"))
	for _, want := range classes {
		found := false
		for _, h := range have {
			if h == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// text returns the concatenated text of a node with surrounding whitespace trimmed.
func text(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(strings.ReplaceAll(sb.String(), "\u00a0", " "))
}
