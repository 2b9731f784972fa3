package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gasviz/internal/chart"
)

// styles are derived from a Theme on every theme change.
type styles struct {
	panel       lipgloss.Style
	header      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	running     lipgloss.Style
	paused      lipgloss.Style
	errLine     lipgloss.Style
	keyHint     lipgloss.Style
	selected    lipgloss.Style
	graph       lipgloss.Style
	progressHi  lipgloss.Style
	progressMid lipgloss.Style
	progressLow lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:       lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		running:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:      lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		errLine:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		keyHint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		selected:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		graph:       lipgloss.NewStyle().Foreground(t.Primary),
		progressHi:  lipgloss.NewStyle().Foreground(t.Success),
		progressMid: lipgloss.NewStyle().Foreground(t.Warning),
		progressLow: lipgloss.NewStyle().Foreground(t.Error),
	}
}

// GradientText colors each rune of text on a line between two colors.
func GradientText(text string, start, end chart.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	s, e := start.RGBA(), end.RGBA()
	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		r := lerp(s.R, e.R, t)
		g := lerp(s.G, e.G, t)
		b := lerp(s.B, e.B, t)

		col := lipgloss.Color(hexColor(r, g, b))
		result.WriteString(lipgloss.NewStyle().Foreground(col).Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders percent in [0, 1] as a bar of width cells.
func (st styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return st.progressHi.Render(bar)
	case percent > 0.4:
		return st.progressMid.Render(bar)
	}
	return st.progressLow.Render(bar)
}

func (st styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return st.keyHint.Render(left + " ◆ " + right)
}

func lerp(a, b uint8, t float64) int {
	return int(float64(a) + t*(float64(b)-float64(a)))
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
