package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Surface     string
	SelectionBg string
	Border      string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.Text)),
		Logo: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)).Bold(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Background(lipgloss.Color(t.Surface)).
			Padding(1, 2),
	}
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Selected    lipgloss.Style
	Logo        lipgloss.Style
	Dialog      lipgloss.Style
}

var themes = []Theme{
	{
		Name:        "Dracula",
		Surface:     "#282a36",
		SelectionBg: "#44475a",
		Border:      "#6272a4",
		Text:        "#f8f8f2",
		Muted:       "#6272a4",
		Faint:       "#44475a",
		Accent:      "#bd93f9",
		Success:     "#50fa7b",
		Warning:     "#f1fa8c",
		Danger:      "#ff5555",
	},
	{
		Name:        "Nord",
		Surface:     "#2e3440",
		SelectionBg: "#434c5e",
		Border:      "#4c566a",
		Text:        "#eceff4",
		Muted:       "#7b88a1",
		Faint:       "#4c566a",
		Accent:      "#88c0d0",
		Success:     "#a3be8c",
		Warning:     "#ebcb8b",
		Danger:      "#bf616a",
	},
	{
		Name:        "Gruvbox",
		Surface:     "#282828",
		SelectionBg: "#3c3836",
		Border:      "#665c54",
		Text:        "#ebdbb2",
		Muted:       "#928374",
		Faint:       "#504945",
		Accent:      "#83a598",
		Success:     "#b8bb26",
		Warning:     "#fabd2f",
		Danger:      "#fb4934",
	},
}

// GetTheme returns the named theme, defaulting to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name following the given one, wrapping around.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}
