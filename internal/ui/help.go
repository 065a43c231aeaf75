package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp draws the full-screen key reference. Any key dismisses it.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", m.keys.FullHelp()[0]},
		{"Input", m.keys.FullHelp()[1]},
		{"Editing", m.keys.FullHelp()[2]},
		{"Actions", m.keys.FullHelp()[3]},
		{"General", m.keys.FullHelp()[4]},
	}

	var b strings.Builder
	b.WriteString(styles.Logo.Render("BEEPBASKET"))
	b.WriteString(styles.MutedText.Render("  key reference"))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(styles.AccentText.Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(styles.WarningText.Render(padRight(h.Key, 8)))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.FaintText.Render("press any key to close"))

	content := b.String()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
