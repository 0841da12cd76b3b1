package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSlideChanged   EventType = "SlideChanged"
	EventGestureBegan   EventType = "GestureBegan"
	EventGestureEnded   EventType = "GestureEnded"
	EventGestureExpired EventType = "GestureExpired"
	EventError          EventType = "Error"
	EventDeckLoaded     EventType = "DeckLoaded"
	EventDeckChanged    EventType = "DeckChanged"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SlideChangedEvent is emitted after the stage synced from one slide to another.
// From is -1 for the initial reveal.
type SlideChangedEvent struct {
	From int
	To   int
}

func (e SlideChangedEvent) Type() EventType { return EventSlideChanged }

// GestureBeganEvent is emitted when a pointer or touch gesture starts on the stage
type GestureBeganEvent struct {
	Source string // signal name that started the gesture
}

func (e GestureBeganEvent) Type() EventType { return EventGestureBegan }

// GestureEndedEvent is emitted when a gesture ends and the stage has reacted to it
type GestureEndedEvent struct {
	Direction string // last classified direction, "" when none
	Moved     bool   // whether the stage changed slide
}

func (e GestureEndedEvent) Type() EventType { return EventGestureEnded }

// GestureExpiredEvent is emitted when an armed gesture was force-ended after idling
type GestureExpiredEvent struct{}

func (e GestureExpiredEvent) Type() EventType { return EventGestureExpired }

// ErrorEvent is emitted when an error occurs outside the core
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// DeckLoadedEvent is emitted when a deck file is parsed
type DeckLoadedEvent struct {
	Path   string
	Slides int
}

func (e DeckLoadedEvent) Type() EventType { return EventDeckLoaded }

// DeckChangedEvent is emitted by the watcher when the deck file changed on disk
type DeckChangedEvent struct {
	Path string
}

func (e DeckChangedEvent) Type() EventType { return EventDeckChanged }

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
