package gesture

import (
	"time"

	"go.uber.org/zap"

	"carousel/internal/dom"
)

// DefaultThreshold is the minimal horizontal distance, in cells, that counts as a drag step.
const DefaultThreshold = 15

// Direction is the classified drag direction
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Callbacks are the three injection points a subscriber provides. Any of them may be nil.
type Callbacks struct {
	Begin     func(ev *dom.Event)
	Direction func(dir Direction, ev *dom.Event)
	End       func(ev *dom.Event)
}

// Config configures a Recognizer
type Config struct {
	// Threshold is the distance that must be exceeded to classify a step. Zero means DefaultThreshold.
	Threshold float64

	// IdleTimeout force-ends an armed gesture that saw no signal for this long. Zero disables it.
	IdleTimeout time.Duration
}

// Recognizer turns a stream of pointer/touch signals into classified drag directions.
// It knows nothing about what the directions are used for.
type Recognizer struct {
	config    Config
	callbacks Callbacks
	logger    *zap.Logger

	lastPosition float64
	// positionless marks a gesture that began without a coordinate; it never classifies
	positionless bool
	isMouseDown  bool
	isDragging   bool
	lastSignal   time.Time
	now          func() time.Time

	element    *dom.Element
	unregister []func()
}

// New creates a recognizer with the given configuration and callbacks
func New(config Config, callbacks Callbacks, logger *zap.Logger) *Recognizer {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{
		config:    config,
		callbacks: callbacks,
		logger:    logger.Named("gesture"),
		now:       time.Now,
	}
}

// BeginGesture arms the recognizer at position x and invokes the begin callback
func (r *Recognizer) BeginGesture(x float64, ev *dom.Event) {
	r.isDragging = false
	r.isMouseDown = true
	r.lastPosition = x
	r.positionless = false
	r.lastSignal = r.now()

	if r.callbacks.Begin != nil {
		r.callbacks.Begin(ev)
	}
}

// ObserveMovement classifies a move to x inside bounds. It returns the emitted direction,
// DirectionNone when nothing was classified.
func (r *Recognizer) ObserveMovement(x float64, bounds dom.Rect, ev *dom.Event) Direction {
	r.isDragging = true
	if !r.isMouseDown {
		return DirectionNone
	}
	r.lastSignal = r.now()

	if r.positionless || !bounds.ContainsX(x) {
		return DirectionNone
	}

	var dir Direction
	switch {
	case r.lastPosition <= 0:
		// first usable position of this gesture, nothing to compare against yet
		r.lastPosition = x
	case x > r.lastPosition+r.config.Threshold:
		r.lastPosition = x
		dir = DirectionRight
	case x < r.lastPosition-r.config.Threshold:
		r.lastPosition = x
		dir = DirectionLeft
	}

	if dir != DirectionNone && r.callbacks.Direction != nil {
		r.callbacks.Direction(dir, ev)
	}
	return dir
}

// EndGesture disarms the recognizer and always invokes the end callback
func (r *Recognizer) EndGesture(ev *dom.Event) {
	r.isMouseDown = false
	r.isDragging = false

	if r.callbacks.End != nil {
		r.callbacks.End(ev)
	}
}

// Expire force-ends an armed gesture that has been idle longer than IdleTimeout.
// It reports whether the gesture was ended.
func (r *Recognizer) Expire(now time.Time) bool {
	if r.config.IdleTimeout <= 0 || !r.isMouseDown {
		return false
	}
	if now.Sub(r.lastSignal) < r.config.IdleTimeout {
		return false
	}
	r.logger.Debug("gesture idle, forcing end", zap.Duration("idle", now.Sub(r.lastSignal)))
	r.EndGesture(nil)
	return true
}

// Armed reports whether a gesture is in progress
func (r *Recognizer) Armed() bool { return r.isMouseDown }

// Dragging reports whether movement was observed since the last begin or end
func (r *Recognizer) Dragging() bool { return r.isDragging }

// LastPosition returns the last recorded horizontal position
func (r *Recognizer) LastPosition() float64 { return r.lastPosition }

// Threshold returns the effective classification threshold
func (r *Recognizer) Threshold() float64 { return r.config.Threshold }
