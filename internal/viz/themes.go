package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gasviz/internal/pipeline"
)

// Theme colors the panels of the TUI and the charts drawn into them.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	// Charts is empty for the chart package defaults.
	Charts    pipeline.Palette
	ChartBack string
	Particle  string
}

var (
	ThemePaper = Theme{
		Name:       "paper",
		Primary:    lipgloss.Color("#000088"),
		Accent:     lipgloss.Color("#880000"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#008800"),
		Warning:    lipgloss.Color("#aa6600"),
		Error:      lipgloss.Color("#cc0000"),
		ChartBack:  "#ffffff",
		Particle:   "#000088",
	}

	ThemePhosphor = Theme{
		Name:       "phosphor",
		Primary:    lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Success:    lipgloss.Color("#88ff88"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
		Charts: pipeline.Palette{
			Grid:     "#005500",
			Text:     "#00ff00",
			Bar:      "#00cc00",
			Critical: "#ffff00",
		},
		ChartBack: "#001100",
		Particle:  "#88ff88",
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
		Charts: pipeline.Palette{
			Grid:     "#224466",
			Text:     "#e0f0ff",
			Bar:      "#00a8cc",
			Critical: "#ffd700",
		},
		ChartBack: "#001a33",
		Particle:  "#00a8cc",
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
		Charts: pipeline.Palette{
			Grid:     "#5b3b5c",
			Text:     "#fff5f5",
			Bar:      "#feca57",
			Critical: "#ff4757",
		},
		ChartBack: "#2d1b2e",
		Particle:  "#ff9ff3",
	}

	Themes = []Theme{
		ThemePaper,
		ThemePhosphor,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to paper.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePaper
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
