package input

import "hnstories/internal/domain"

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Stories       []domain.Story // the projected list as rendered
	SelectedIndex int
	Term          string
	Filter        string
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.SelectedIndex
}

// TotalItems returns the number of visible stories
func (c *ModelContext) TotalItems() int {
	return len(c.Stories)
}

// HasCurrentStory reports whether the cursor is on a story
func (c *ModelContext) HasCurrentStory() bool {
	return c.SelectedIndex >= 0 && c.SelectedIndex < len(c.Stories)
}

// SearchTerm returns the current search term
func (c *ModelContext) SearchTerm() string {
	return c.Term
}

// FilterQuery returns the current local filter
func (c *ModelContext) FilterQuery() string {
	return c.Filter
}
