package stage

import (
	"go.uber.org/zap"

	"carousel/internal/eventbus"
	"carousel/internal/gesture"
)

// Presenter applies visual state for the controller
type Presenter interface {
	// Present hides the slide and pager at oldOffset (when >= 0) and shows the ones at newOffset
	Present(oldOffset, newOffset int)
	// IsShowing reports whether the pager at index is currently marked active
	IsShowing(index int) bool
}

// Controller owns the active slide offset and reacts to gestures and pager transitions
type Controller struct {
	config    Config
	numSlides int
	offset    int

	presenter Presenter
	queue     *TaskQueue
	bus       eventbus.EventBus
	logger    *zap.Logger

	// gesture subscriber state
	userInteracted bool
	lastDirection  gesture.Direction
}

// NewController creates a controller for numSlides slides. Negative counts are treated as 0.
// bus and logger may be nil.
func NewController(numSlides int, config Config, presenter Presenter, queue *TaskQueue, bus eventbus.EventBus, logger *zap.Logger) *Controller {
	if numSlides < 0 {
		numSlides = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if queue == nil {
		queue = NewTaskQueue()
	}
	return &Controller{
		config:    config,
		numSlides: numSlides,
		offset:    -1,
		presenter: presenter,
		queue:     queue,
		bus:       bus,
		logger:    logger.Named("stage"),
	}
}

// Offset returns the active slide index, -1 before the first sync
func (c *Controller) Offset() int { return c.offset }

// NumSlides returns the slide count fixed at construction
func (c *Controller) NumSlides() int { return c.numSlides }

// Config returns the stage configuration
func (c *Controller) Config() Config { return c.config }

// Advance moves to the next slide
func (c *Controller) Advance() {
	c.moveTo(c.offset + 1)
}

// Retreat moves to the previous slide
func (c *Controller) Retreat() {
	c.moveTo(c.offset - 1)
}

func (c *Controller) moveTo(candidate int) {
	if c.numSlides == 0 {
		return
	}
	old := c.offset
	next := c.resolve(candidate)
	if next == old {
		return
	}
	c.offset = next
	c.sync(old, next)
}

// resolve maps an out-of-range candidate back into [0, numSlides) per the wrap policy
func (c *Controller) resolve(candidate int) int {
	last := c.numSlides - 1
	switch {
	case candidate < 0:
		if c.config.Mode == Wrap {
			return last
		}
		return 0
	case candidate > last:
		if c.config.Mode == Wrap {
			return 0
		}
		return last
	}
	return candidate
}

func (c *Controller) sync(old, next int) {
	c.logger.Debug("sync", zap.Int("from", old), zap.Int("to", next))
	if c.presenter != nil {
		c.presenter.Present(old, next)
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.SlideChangedEvent{From: old, To: next})
	}
}

// RequestInitialReveal defers the first sync so layout can settle. It does nothing
// when autostart is disabled.
func (c *Controller) RequestInitialReveal() {
	if !c.config.Autostart {
		return
	}
	c.queue.Defer(c.reveal)
}

// reveal shows slide 0 unless something already moved the stage
func (c *Controller) reveal() {
	if c.numSlides == 0 || c.offset != -1 {
		return
	}
	c.offset = 0
	c.sync(-1, 0)
}

// OnGestureBegin records that the user interacted with the stage
func (c *Controller) OnGestureBegin() {
	c.userInteracted = true
	c.lastDirection = gesture.DirectionNone
}

// OnGestureDirection records the most recent classified direction
func (c *Controller) OnGestureDirection(dir gesture.Direction) {
	c.lastDirection = dir
}

// OnGestureEnd reacts to the last direction of the finished gesture: a drag to the left
// shows the next slide, anything else the previous one.
func (c *Controller) OnGestureEnd() {
	if !c.userInteracted {
		return
	}
	dir := c.lastDirection
	before := c.offset

	if dir == gesture.DirectionLeft {
		c.Advance()
	} else {
		c.Retreat()
	}

	c.lastDirection = gesture.DirectionNone
	c.userInteracted = false

	if c.bus != nil {
		c.bus.Publish(eventbus.GestureEndedEvent{Direction: string(dir), Moved: before != c.offset})
	}
}

// OnPagerTransitionComplete advances when autoscroll is on and the signal comes from the
// pager currently marked active. Signals from other pagers are stale and ignored.
func (c *Controller) OnPagerTransitionComplete(index int) {
	if c.presenter == nil || !c.presenter.IsShowing(index) {
		return
	}
	if c.config.Autoscroll {
		c.Advance()
	}
}
