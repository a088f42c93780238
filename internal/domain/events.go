package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventContentLoaded   EventType = "ContentLoaded"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventFocusChanged    EventType = "FocusChanged"
	EventSearchOpened    EventType = "SearchOpened"
	EventSearchClosed    EventType = "SearchClosed"
	EventSearchCompleted EventType = "SearchCompleted"
	EventStepToggled     EventType = "StepToggled"
	EventChecklistReset  EventType = "ChecklistReset"
	EventIntentRejected  EventType = "IntentRejected"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ContentLoadedEvent is emitted once the content store is ready
type ContentLoadedEvent struct {
	Source     string
	Regions    int
	Fractures  int
	Topics     int
	Checklists int
}

func (e ContentLoadedEvent) Type() EventType { return EventContentLoaded }

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

// FocusChangedEvent is emitted after a navigation intent changed the focus
type FocusChangedEvent struct {
	Intent string
	Tab    Tab
	Focus  string // human readable description of the new focus
}

func (e FocusChangedEvent) Type() EventType { return EventFocusChanged }

// SearchOpenedEvent is emitted when the search overlay opens
type SearchOpenedEvent struct{}

func (e SearchOpenedEvent) Type() EventType { return EventSearchOpened }

// SearchClosedEvent is emitted when the search overlay closes
type SearchClosedEvent struct {
	Query string // query at the time the overlay closed
}

func (e SearchClosedEvent) Type() EventType { return EventSearchClosed }

// SearchCompletedEvent is emitted after results were recomputed
type SearchCompletedEvent struct {
	Query        string
	FractureHits int
	QuickRefHits int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// StepToggledEvent is emitted when a checklist step flips
type StepToggledEvent struct {
	Key       StepKey
	Done      bool
	Completed int
	Total     int
}

func (e StepToggledEvent) Type() EventType { return EventStepToggled }

// ChecklistResetEvent is emitted when a checklist's progress is cleared
type ChecklistResetEvent struct {
	Checklist int
}

func (e ChecklistResetEvent) Type() EventType { return EventChecklistReset }

// IntentRejectedEvent is emitted when an intent fails validation
type IntentRejectedEvent struct {
	Intent string
	Err    error
}

func (e IntentRejectedEvent) Type() EventType { return EventIntentRejected }
