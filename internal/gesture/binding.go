package gesture

import (
	"go.uber.org/zap"

	"carousel/internal/dom"
)

// OnBegin adapts a start signal. A start without a coordinate still arms the recognizer
// and fires Begin, but no movement of that gesture is ever classified.
func (r *Recognizer) OnBegin(ev *dom.Event) {
	x, ok := ev.PositionX()
	r.BeginGesture(x, ev)
	r.positionless = !ok
}

// OnMove adapts a move signal. Moves without a coordinate are ignored.
func (r *Recognizer) OnMove(ev *dom.Event) {
	x, ok := ev.PositionX()
	if !ok {
		return
	}
	if r.element == nil {
		r.logger.Error("movement observed without a registered element")
		return
	}
	r.ObserveMovement(x, r.element.Bounds(), ev)
}

// OnEnd adapts an end, leave or cancel signal
func (r *Recognizer) OnEnd(ev *dom.Event) {
	r.EndGesture(ev)
}

// Register attaches the recognizer to every pointer and touch signal of el.
// Any previous registration is removed first.
func (r *Recognizer) Register(source *dom.EventSource, el *dom.Element) {
	r.Unregister()

	touch := dom.ListenOptions{Passive: dom.SupportsPassiveListeners()}
	none := dom.ListenOptions{}

	r.unregister = append(r.unregister,
		source.Listen(el, dom.SignalPointerDown, r.OnBegin, none),
		source.Listen(el, dom.SignalTouchStart, r.OnBegin, touch),
		source.Listen(el, dom.SignalPointerMove, r.OnMove, none),
		source.Listen(el, dom.SignalTouchMove, r.OnMove, touch),
		source.Listen(el, dom.SignalPointerLeave, r.OnEnd, none),
		source.Listen(el, dom.SignalTouchEnd, r.OnEnd, none),
		source.Listen(el, dom.SignalTouchCancel, r.OnEnd, none),
		source.Listen(el, dom.SignalPointerUp, r.OnEnd, none),
	)
	r.element = el

	r.logger.Debug("registered", zap.Bool("passive_touch", touch.Passive))
}

// Unregister detaches every handler added by Register
func (r *Recognizer) Unregister() {
	for _, fn := range r.unregister {
		fn()
	}
	r.unregister = nil
}

// Element returns the element the recognizer is registered on
func (r *Recognizer) Element() *dom.Element { return r.element }
