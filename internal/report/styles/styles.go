package styles

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Color    Color
	Doc      lipgloss.Style
	TitleBar lipgloss.Style
	Event    lipgloss.Style
	Series   lipgloss.Style
	Green    lipgloss.Style
	Purple   lipgloss.Style
	Red      lipgloss.Style
	Yellow   lipgloss.Style
	Subtle   lipgloss.Style
}

type Color struct {
	Red               lipgloss.Color
	Yellow            lipgloss.Color
	Green             lipgloss.Color
	Purple            lipgloss.Color
	Subtle            lipgloss.AdaptiveColor
	PrimaryForeground lipgloss.AdaptiveColor
}

func Default() *Style {
	red := lipgloss.Color("#CF040E")
	yellow := lipgloss.Color("#FAD105")
	green := lipgloss.Color("#17C81D")
	purple := lipgloss.Color("#DA0ED3")
	subtle := lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	primaryForeground := lipgloss.AdaptiveColor{Light: "#383838", Dark: "#D9DCCF"}

	return &Style{
		Color: Color{
			// F1 colors
			Red:    red,
			Yellow: yellow,
			Green:  green,
			Purple: purple,
			// Thematic colors
			Subtle:            subtle,
			PrimaryForeground: primaryForeground,
		},
		Doc: lipgloss.NewStyle().Margin(1, 1),
		// header styles
		TitleBar: lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primaryForeground).
			Foreground(primaryForeground),
		// one line per event, series indented below it
		Event: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryForeground),
		Series: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(primaryForeground),
		Green:  lipgloss.NewStyle().Foreground(green),
		Purple: lipgloss.NewStyle().Foreground(purple),
		Red:    lipgloss.NewStyle().Foreground(red),
		Yellow: lipgloss.NewStyle().Foreground(yellow),
		Subtle: lipgloss.NewStyle().Foreground(subtle),
	}
}
