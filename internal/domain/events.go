package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchTermChanged EventType = "SearchTermChanged"
	EventSearchSubmitted   EventType = "SearchSubmitted"
	EventFetchStarted      EventType = "FetchStarted"
	EventFetchSucceeded    EventType = "FetchSucceeded"
	EventFetchFailed       EventType = "FetchFailed"
	EventFetchDiscarded    EventType = "FetchDiscarded"
	EventStoryDismissed    EventType = "StoryDismissed"
	EventPersistFailed     EventType = "PersistFailed"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchTermChangedEvent is emitted on every keystroke in the search input
type SearchTermChangedEvent struct {
	Term string
}

func (e SearchTermChangedEvent) Type() EventType { return EventSearchTermChanged }

// SearchSubmittedEvent is emitted when a new request target becomes current
type SearchSubmittedEvent struct {
	Term   string
	Target string
}

func (e SearchSubmittedEvent) Type() EventType { return EventSearchSubmitted }

// FetchStartedEvent is emitted when a request is issued
type FetchStartedEvent struct {
	Generation uint64
	Target     string
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// FetchSucceededEvent is emitted when the current request commits its payload
type FetchSucceededEvent struct {
	Generation uint64
	Target     string
	Count      int
}

func (e FetchSucceededEvent) Type() EventType { return EventFetchSucceeded }

// FetchFailedEvent is emitted when the current request fails
type FetchFailedEvent struct {
	Generation uint64
	Target     string
	Err        error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// FetchDiscardedEvent is emitted when a response arrives for a superseded request
type FetchDiscardedEvent struct {
	Generation uint64
	Current    uint64
	Target     string
}

func (e FetchDiscardedEvent) Type() EventType { return EventFetchDiscarded }

// StoryDismissedEvent is emitted when the user removes a story from the list
type StoryDismissedEvent struct {
	ID    ID
	Title string
}

func (e StoryDismissedEvent) Type() EventType { return EventStoryDismissed }

// PersistFailedEvent is emitted when the search term could not be written
type PersistFailedEvent struct {
	Key string
	Err error
}

func (e PersistFailedEvent) Type() EventType { return EventPersistFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
