package dom

import (
	"strings"
	"sync"
)

// Signal names an input or lifecycle signal delivered to an element
type Signal string

const (
	SignalPointerDown        Signal = "pointerDown"
	SignalPointerMove        Signal = "pointerMove"
	SignalPointerUp          Signal = "pointerUp"
	SignalPointerLeave       Signal = "pointerLeave"
	SignalTouchStart         Signal = "touchStart"
	SignalTouchMove          Signal = "touchMove"
	SignalTouchEnd           Signal = "touchEnd"
	SignalTouchCancel        Signal = "touchCancel"
	SignalTransitionComplete Signal = "transitionComplete"
)

// IsTouch reports whether the signal comes from a touch source
func (s Signal) IsTouch() bool {
	return strings.HasPrefix(string(s), "touch")
}

// Touch is one touch point of a touch signal
type Touch struct {
	PageX float64
	PageY float64
}

// Event is the payload delivered to handlers
type Event struct {
	Signal   Signal
	Target   *Element
	PageX    float64
	PageY    float64
	HasPageX bool
	Touches  []Touch

	passive          bool
	defaultPrevented bool
}

// PositionX returns the horizontal coordinate of the event. Touch signals prefer the
// first touch point and fall back to PageX. ok is false when no coordinate is present.
func (e *Event) PositionX() (x float64, ok bool) {
	if e == nil {
		return 0, false
	}
	if e.Signal.IsTouch() && len(e.Touches) > 0 && e.Touches[0].PageX != 0 {
		return e.Touches[0].PageX, true
	}
	if e.HasPageX {
		return e.PageX, true
	}
	return 0, false
}

// PreventDefault marks the event as handled. Ignored inside passive listeners.
func (e *Event) PreventDefault() {
	if !e.passive {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether a non-passive handler called PreventDefault
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Handler receives dispatched events
type Handler func(ev *Event)

// ListenOptions tunes a registration
type ListenOptions struct {
	// Passive asks for non-blocking delivery. Only honoured when the platform supports it.
	Passive bool
}

type listener struct {
	id      uint64
	handler Handler
	passive bool
}

// EventSource keeps signal handlers per element and dispatches events to them.
// It is not safe for concurrent use; all calls happen on the UI goroutine.
type EventSource struct {
	listeners map[*Element]map[Signal][]listener
	nextID    uint64
}

// NewEventSource creates an empty event source
func NewEventSource() *EventSource {
	return &EventSource{
		listeners: make(map[*Element]map[Signal][]listener),
	}
}

// Listen registers handler for signal on el and returns a function removing it
func (s *EventSource) Listen(el *Element, signal Signal, handler Handler, opts ListenOptions) func() {
	if el == nil || handler == nil {
		return func() {}
	}
	bySignal, ok := s.listeners[el]
	if !ok {
		bySignal = make(map[Signal][]listener)
		s.listeners[el] = bySignal
	}
	s.nextID++
	id := s.nextID
	bySignal[signal] = append(bySignal[signal], listener{
		id:      id,
		handler: handler,
		passive: opts.Passive && SupportsPassiveListeners(),
	})

	return func() { s.remove(el, signal, id) }
}

func (s *EventSource) remove(el *Element, signal Signal, id uint64) {
	bySignal, ok := s.listeners[el]
	if !ok {
		return
	}
	ls := bySignal[signal]
	for i, l := range ls {
		if l.id == id {
			bySignal[signal] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(bySignal[signal]) == 0 {
		delete(bySignal, signal)
	}
	if len(bySignal) == 0 {
		delete(s.listeners, el)
	}
}

// ListenerCount returns how many handlers are registered for signal on el
func (s *EventSource) ListenerCount(el *Element, signal Signal) int {
	return len(s.listeners[el][signal])
}

// Dispatch delivers ev to every handler registered for ev.Signal on el, in registration
// order. It returns the number of handlers invoked.
func (s *EventSource) Dispatch(el *Element, ev *Event) int {
	if el == nil || ev == nil {
		return 0
	}
	ev.Target = el
	ls := append([]listener(nil), s.listeners[el][ev.Signal]...)
	for _, l := range ls {
		ev.passive = l.passive
		l.handler(ev)
	}
	ev.passive = false
	return len(ls)
}

var (
	passiveOnce      sync.Once
	passiveSupported bool

	// passiveProbe detects non-blocking delivery support. The terminal input loop never
	// waits on handlers, so the default probe succeeds.
	passiveProbe = func() bool { return true }
)

// SupportsPassiveListeners runs the capability probe once per process and caches it.
// Terminal input always supports passive delivery, so in practice this reports true;
// the probe stays swappable for hosts that block on handlers.
func SupportsPassiveListeners() bool {
	passiveOnce.Do(func() {
		passiveSupported = passiveProbe()
	})
	return passiveSupported
}
