package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hnstories/internal/domain"
)

// ErrorNotice is shown while the last fetch failed
const ErrorNotice = "Something went wrong ..."

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Stories       []domain.Story // projected list
	Total         int            // stories held before the local filter
	SelectedIndex int
	VisibleStart  int
	VisibleEnd    int
	MoreAbove     bool
	MoreBelow     bool
	IsLoading     bool
	IsError       bool
	HasFetched    bool
	SearchTerm    string
	FilterQuery   string
	InputMode     string // "" in normal mode
	InputPrompt   string
	TextInput     string // rendered text input
	StatusMessage string
	StatusIsError bool
	ShowHelp      bool
	HelpContent   string
	HelpLine      string // short key help for the footer
	SpinnerFrame  int
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	storyRender *StoryRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		storyRender: NewStoryRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Stories exposes the story renderer
func (r *Renderer) Stories() *StoryRenderer {
	return r.storyRender
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopupOverlay(state.HelpContent, state.Height, state.Width, r.styles.InfoBox)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")

	if state.InputMode != "" {
		content.WriteString(r.styles.Prompt.Render(state.InputPrompt))
		content.WriteString(state.TextInput)
	} else {
		content.WriteString(r.styles.Prompt.Render("Search: "))
		content.WriteString(state.SearchTerm)
	}
	content.WriteString("\n\n")

	// The notice sits above whatever data the last successful fetch left
	if state.IsError {
		content.WriteString(r.styles.ErrorNotice.Render(ErrorNotice))
		content.WriteString("\n")
	}

	switch {
	case state.IsLoading && len(state.Stories) == 0:
		content.WriteString(r.styles.Dim.Render("Loading ..."))
	case len(state.Stories) == 0 && state.Total > 0:
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("No stories match %q.", state.FilterQuery)))
	case len(state.Stories) == 0 && state.HasFetched && !state.IsError:
		content.WriteString(r.styles.Dim.Render("No stories found."))
	default:
		content.WriteString(r.renderStoryList(state))
	}

	footer := r.renderFooter(state)
	if footer != "" {
		currentLines := strings.Count(content.String(), "\n") + 1

		// Account for container padding (1 top, 1 bottom from Padding(1, 2))
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		footerLines := strings.Count(footer, "\n") + 1
		if paddingNeeded := availableLines - currentLines - footerLines; paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}
		content.WriteString("\n")
		content.WriteString(footer)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

// renderTitleLine renders the logo with right-aligned indicators
func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("Hacker Stories")

	var indicators []string
	if state.IsLoading {
		frame := spinnerFrames[state.SpinnerFrame%len(spinnerFrames)]
		indicators = append(indicators, r.styles.StatusLoading.Render(frame+" Searching"))
	} else if state.HasFetched && !state.IsError {
		indicators = append(indicators, r.styles.StatusSuccess.Render(counts(len(state.Stories), state.Total)))
	}
	if state.FilterQuery != "" {
		indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.FilterQuery)))
	}
	if len(indicators) == 0 {
		return logo
	}

	rightContent := strings.Join(indicators, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - 4 // Account for main container padding
	paddingWidth := availableWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	return logo + strings.Repeat(" ", paddingWidth) + rightContent
}

func counts(shown, total int) string {
	if shown == total {
		return plural(total, "story", "stories")
	}
	return fmt.Sprintf("%d of %s", shown, plural(total, "story", "stories"))
}

// renderStoryList renders the visible window of stories
func (r *Renderer) renderStoryList(state ViewState) string {
	var lines []string

	if state.MoreAbove {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.VisibleStart)))
	}

	end := state.VisibleEnd
	if end > len(state.Stories) || end <= 0 {
		end = len(state.Stories)
	}
	start := state.VisibleStart
	if start < 0 || start > end {
		start = 0
	}

	width := state.Width - 4
	for i := start; i < end; i++ {
		lines = append(lines, r.storyRender.RenderStory(state.Stories[i], i == state.SelectedIndex, state.FilterQuery, width))
	}

	if state.MoreBelow {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", len(state.Stories)-end)))
	}

	return strings.Join(lines, "\n")
}

// renderFooter renders the status line and the key help
func (r *Renderer) renderFooter(state ViewState) string {
	var lines []string
	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		lines = append(lines, style.Render(state.StatusMessage))
	}
	if state.HelpLine != "" {
		lines = append(lines, state.HelpLine)
	} else {
		lines = append(lines, r.styles.Help.Render("Press ? for help"))
	}
	return strings.Join(lines, "\n")
}
