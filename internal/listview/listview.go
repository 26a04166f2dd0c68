// Package listview derives the visible story list from the lifecycle data.
package listview

import (
	"strings"

	"hnstories/internal/domain"
	"hnstories/internal/lifecycle"
)

// Project returns the stories whose title contains filter, ignoring case,
// in input order. An empty filter keeps every story. The result never
// aliases data.
func Project(data []domain.Story, filter string) []domain.Story {
	out := make([]domain.Story, 0, len(data))
	query := strings.ToLower(filter)
	for _, story := range data {
		if Matches(story, query) {
			out = append(out, story)
		}
	}
	return out
}

// Matches reports whether story's title contains the lower-cased query
func Matches(story domain.Story, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(story.Title), lowerQuery)
}

// Remove asks the lifecycle to drop story. The list view keeps no state
// of its own, so removal is always expressed as an action.
func Remove(d lifecycle.Dispatcher, story domain.Story) lifecycle.State {
	return d.Dispatch(lifecycle.RemoveItem{ID: story.ObjectID})
}
