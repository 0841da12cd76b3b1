package ui

import (
	"time"

	"carousel/internal/domain"
	"carousel/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for animations
type tickMsg time.Time

// drainMsg runs the stage's deferred tasks once the current update is done
type drainMsg struct {
	mount int
}

// transitionDoneMsg fires when a pager's fill transition finishes
type transitionDoneMsg struct {
	mount int
	index int
	gen   int
}

// pagerClosedMsg contains the result of a pager command
type pagerClosedMsg struct {
	err error
}

// deckLoadedMsg contains the result of reloading the deck
type deckLoadedMsg struct {
	deck *domain.Deck
	err  error
}
