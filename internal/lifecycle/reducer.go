// Package lifecycle holds the state machine for the remote story list.
//
// All changes to the list and its loading flags go through Reduce, so the
// three fields are always updated together.
package lifecycle

import (
	"errors"
	"fmt"

	"hnstories/internal/domain"
)

// ErrUnknownAction is the panic value for an action Reduce does not know
var ErrUnknownAction = errors.New("lifecycle: unknown action")

// Reduce returns the state that results from applying a to s.
// It never modifies s. An unknown action is a programming error and panics.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchInit:
		s.IsLoading = true
		s.IsError = false
		return s

	case FetchSuccess:
		s.IsLoading = false
		s.IsError = false
		s.Data = make([]domain.Story, len(a.Payload))
		copy(s.Data, a.Payload)
		return s

	case FetchFailure:
		s.IsLoading = false
		s.IsError = true
		return s

	case RemoveItem:
		kept := make([]domain.Story, 0, len(s.Data))
		for _, story := range s.Data {
			if story.ObjectID != a.ID {
				kept = append(kept, story)
			}
		}
		s.Data = kept
		return s

	default:
		panic(fmt.Errorf("%w: %T", ErrUnknownAction, a))
	}
}
