package views

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers popupContent over a dimmed screen. The main
// content is replaced rather than composited.
func (pr *PopupRenderer) RenderPopupOverlay(popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styledPopup
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styledPopup,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("238")))
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color and style codes
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
