package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors the stage drawing and the side panel. Item colors always
// come from the configured palette.
type Theme struct {
	Name   string
	Plank  string
	Pivot  string
	Cursor string
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Accent lipgloss.Color
	Graph  lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeSlate = Theme{
		Name:   "slate",
		Plank:  "#a3a3a3",
		Pivot:  "#525252",
		Cursor: "#fafafa",
		Title:  lipgloss.Color("86"),
		Label:  lipgloss.Color("245"),
		Value:  lipgloss.Color("252"),
		Accent: lipgloss.Color("205"),
		Graph:  lipgloss.Color("49"),
		Muted:  lipgloss.Color("240"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Plank:  "#00ff00",
		Pivot:  "#005500",
		Cursor: "#88ff88",
		Title:  lipgloss.Color("#00ff00"),
		Label:  lipgloss.Color("#00cc00"),
		Value:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ffff00"),
		Graph:  lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Plank:  "#00a8cc",
		Pivot:  "#4488aa",
		Cursor: "#ffd700",
		Title:  lipgloss.Color("#00a8cc"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Accent: lipgloss.Color("#ffd700"),
		Graph:  lipgloss.Color("#0077be"),
		Muted:  lipgloss.Color("#335566"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Plank:  "#feca57",
		Pivot:  "#8b6b8c",
		Cursor: "#ff9ff3",
		Title:  lipgloss.Color("#ff6b6b"),
		Label:  lipgloss.Color("#8b6b8c"),
		Value:  lipgloss.Color("#fff5f5"),
		Accent: lipgloss.Color("#ff9ff3"),
		Graph:  lipgloss.Color("#feca57"),
		Muted:  lipgloss.Color("#5c4a5d"),
	}

	Themes = []Theme{ThemeSlate, ThemeRetro, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to slate.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSlate
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme cycles through Themes.
func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeSlate
}

type styles struct {
	canvas, panel, title, label, value, accent, graph, log, help lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(padTop, padLeft),
		panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(panelWidth),
		title:  lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		accent: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		log:    lipgloss.NewStyle().Foreground(t.Label),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
	}
}
