package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSections names the FullHelp columns in order
var helpSections = []string{"Navigation", "Search & Filter", "Stories", "Other"}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys KeyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys KeyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// Render generates the help page shown in the pager or the popup
func (r *HelpRenderer) Render() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("208")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("Hacker Stories Help"))
	help.WriteString("\n")

	for i, column := range r.keys.FullHelp() {
		name := "Other"
		if i < len(helpSections) {
			name = helpSections[i]
		}
		help.WriteString(sectionStyle.Render(name))
		help.WriteString("\n")
		for _, b := range column {
			writeBinding(&help, b, keyStyle, descStyle)
		}
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("While typing"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-9s", "enter")), descStyle.Render("Submit search / keep filter"))
	fmt.Fprintf(&help, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-9s", "esc")), descStyle.Render("Cancel and restore the previous value"))
	help.WriteString("\n")

	note := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString(note.Render("  The search term is saved as you type and restored on the next start."))

	return help.String()
}

func writeBinding(b *strings.Builder, binding key.Binding, keyStyle, descStyle lipgloss.Style) {
	h := binding.Help()
	fmt.Fprintf(b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-9s", h.Key)), descStyle.Render(capitalize(h.Desc)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
