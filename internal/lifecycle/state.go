package lifecycle

import "hnstories/internal/domain"

// State is the remote list together with its loading flags
type State struct {
	Data      []domain.Story
	IsLoading bool
	IsError   bool
}

// Phase is the coarse lifecycle stage derived from State
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// Initial returns the state before any request: no data, not loading, no error
func Initial() State {
	return State{Data: []domain.Story{}}
}

// Phase reports which stage the state is in. hasFetched distinguishes a
// finished empty result from the idle state before the first request.
func (s State) Phase(hasFetched bool) Phase {
	switch {
	case s.IsLoading:
		return PhaseLoading
	case s.IsError:
		return PhaseFailure
	case hasFetched:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// Clone returns a copy that shares no backing array with s
func (s State) Clone() State {
	out := s
	out.Data = make([]domain.Story, len(s.Data))
	copy(out.Data, s.Data)
	return out
}
