package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	Prompt        lipgloss.Style
	InfoBox       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	StoryTitle    lipgloss.Style
	StoryMeta     lipgloss.Style
	Points        lipgloss.Style
	Comments      lipgloss.Style
	ErrorNotice   lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StoryTitle:  lipgloss.NewStyle().Bold(true),
		StoryMeta:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Points:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Comments:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		ErrorNotice: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// PointsColor grades a story's score
func PointsColor(points int) string {
	switch {
	case points >= 500:
		return "196" // red hot
	case points >= 100:
		return "208" // orange
	case points >= 10:
		return "214" // yellow
	default:
		return "245" // gray
	}
}
