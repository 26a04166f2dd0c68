package views

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hnstories/internal/domain"
)

// StoryRenderer handles rendering of story rows
type StoryRenderer struct {
	styles *Styles
}

// NewStoryRenderer creates a new story renderer
func NewStoryRenderer(styles *Styles) *StoryRenderer {
	return &StoryRenderer{styles: styles}
}

// RenderStory renders one story as a single line clipped to width
func (r *StoryRenderer) RenderStory(story domain.Story, isSelected bool, filterQuery string, width int) string {
	bg := lipgloss.NewStyle()
	if isSelected {
		bg = r.styles.SelectionBg
	}

	cursor := "  "
	if isSelected {
		cursor = "▸ "
	}

	title := story.Title
	if title == "" {
		title = "(untitled)"
	}
	titleStyle := r.styles.StoryTitle.Inherit(bg)
	renderedTitle := titleStyle.Render(title)
	if filterQuery != "" {
		renderedTitle = r.highlightMatch(title, filterQuery, r.styles.Highlight.Inherit(bg), titleStyle)
	}

	parts := []string{
		bg.Render(cursor),
		renderedTitle,
	}
	if host := Host(story.URL); host != "" {
		parts = append(parts, r.styles.StoryMeta.Inherit(bg).Render(" ("+host+")"))
	}
	meta := fmt.Sprintf(" by %s", orUnknown(story.Author))
	parts = append(parts,
		r.styles.StoryMeta.Inherit(bg).Render(meta),
		bg.Render("  "),
		r.styles.Comments.Inherit(bg).Render(plural(story.NumComments, "comment", "comments")),
		bg.Render("  "),
		lipgloss.NewStyle().Foreground(lipgloss.Color(PointsColor(story.Points))).Inherit(bg).Render(plural(story.Points, "point", "points")),
	)

	line := strings.Join(parts, "")
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// RenderDetails renders the full record of a story for the pager
func (r *StoryRenderer) RenderDetails(story domain.Story) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(story.Title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %-10s %s\n", "URL", orUnknown(story.URL))
	fmt.Fprintf(&b, "  %-10s %s\n", "Author", orUnknown(story.Author))
	fmt.Fprintf(&b, "  %-10s %d\n", "Comments", story.NumComments)
	fmt.Fprintf(&b, "  %-10s %d\n", "Points", story.Points)
	fmt.Fprintf(&b, "  %-10s %s\n", "ID", story.ObjectID)
	fmt.Fprintf(&b, "  %-10s https://news.ycombinator.com/item?id=%s\n", "Discuss", story.ObjectID)
	return b.String()
}

// Host returns the host part of a story URL, without a leading www.
func Host(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// highlightMatch highlights the first case-insensitive match of query
func (r *StoryRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	index := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if index == -1 || len(strings.ToLower(text)) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}
	return strings.Join(result, "")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
