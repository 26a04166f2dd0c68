package ui

import (
	"time"

	"hnstories/internal/controller"
	"hnstories/internal/domain"
	"hnstories/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for the loading spinner
type tickMsg time.Time

// fetchResultMsg carries the outcome of a request back to the update loop
type fetchResultMsg struct {
	req     controller.Request
	stories []domain.Story
	err     error
}

type pagerKind int

const (
	pagerHelp pagerKind = iota
	pagerStory
)

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	kind pagerKind
	err  error
}

// clearStatusMsg clears the status line if it still shows message id
type clearStatusMsg struct {
	id int
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
