package lifecycle

import "hnstories/internal/domain"

// ActionType names an action for logging
type ActionType string

const (
	TypeFetchInit    ActionType = "FETCH_INIT"
	TypeFetchSuccess ActionType = "FETCH_SUCCESS"
	TypeFetchFailure ActionType = "FETCH_FAILURE"
	TypeRemoveItem   ActionType = "REMOVE_ITEM"
)

// Action is a state transition request. The set of actions is closed:
// the unexported method keeps other packages from adding variants.
type Action interface {
	Type() ActionType
	action()
}

// FetchInit marks the start of a request
type FetchInit struct{}

func (FetchInit) Type() ActionType { return TypeFetchInit }
func (FetchInit) action()          {}

// FetchSuccess carries the parsed payload of the current request
type FetchSuccess struct {
	Payload []domain.Story
}

func (FetchSuccess) Type() ActionType { return TypeFetchSuccess }
func (FetchSuccess) action()          {}

// FetchFailure marks the current request as failed, whatever the cause
type FetchFailure struct{}

func (FetchFailure) Type() ActionType { return TypeFetchFailure }
func (FetchFailure) action()          {}

// RemoveItem drops the story with the given identifier
type RemoveItem struct {
	ID domain.ID
}

func (RemoveItem) Type() ActionType { return TypeRemoveItem }
func (RemoveItem) action()          {}
