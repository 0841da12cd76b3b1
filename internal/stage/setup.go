package stage

import (
	"strconv"

	"go.uber.org/zap"

	"carousel/internal/dom"
	"carousel/internal/eventbus"
	"carousel/internal/gesture"
)

// Options carries the collaborators InitOn wires into a stage
type Options struct {
	Gesture gesture.Config
	// Config overrides the host attributes when set
	Config *Config
	Logger *zap.Logger
	Bus    eventbus.EventBus
	Queue  *TaskQueue
}

// Stage is a carousel attached to a host element
type Stage struct {
	Controller *Controller
	Recognizer *gesture.Recognizer
	Presenter  *DOMPresenter

	Host    *dom.Element
	Handler *dom.Element
	Pagers  []*dom.Element

	unregister []func()
}

// InitOn builds the interaction handler and pagers under host, wires the gesture
// recognizer to the controller and schedules the initial reveal.
func InitOn(tree *dom.Tree, host *dom.Element, source *dom.EventSource, opts Options) *Stage {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	queue := opts.Queue
	if queue == nil {
		queue = NewTaskQueue()
	}
	cfg := ParseConfig(host)
	if opts.Config != nil {
		cfg = *opts.Config
	}

	// pagers carry the item attribute too, so count before creating them
	numSlides := len(host.FindAll("[" + AttrItem + "]"))

	presenter := NewDOMPresenter(host, logger)
	controller := NewController(numSlides, cfg, presenter, queue, opts.Bus, logger)
	s := &Stage{
		Controller: controller,
		Presenter:  presenter,
		Host:       host,
	}

	s.Handler = tree.CreateElement("div")
	s.Handler.SetClassName(ClassInteractionHandler)
	s.Handler.SetAttribute("data-drag-handler", "")
	tree.AppendChild(host, s.Handler)

	s.Recognizer = gesture.New(opts.Gesture, gesture.Callbacks{
		Begin: func(ev *dom.Event) {
			controller.OnGestureBegin()
			if opts.Bus != nil {
				source := ""
				if ev != nil {
					source = string(ev.Signal)
				}
				opts.Bus.Publish(eventbus.GestureBeganEvent{Source: source})
			}
		},
		Direction: func(dir gesture.Direction, _ *dom.Event) {
			controller.OnGestureDirection(dir)
		},
		End: func(*dom.Event) {
			controller.OnGestureEnd()
		},
	}, logger)
	s.Recognizer.Register(source, s.Handler)

	container := tree.CreateElement("div")
	container.SetClassName(ClassPagers)
	tree.AppendChild(host, container)

	for i := 0; i < numSlides; i++ {
		pager := tree.CreateElement("div")
		pager.SetClassName(ClassPager)
		pager.SetAttribute(AttrItem, strconv.Itoa(i))

		inner := tree.CreateElement("div")
		inner.SetClassName(ClassPagerInner)
		tree.AppendChild(pager, inner)
		tree.AppendChild(container, pager)

		s.Pagers = append(s.Pagers, pager)
		s.unregister = append(s.unregister,
			source.Listen(inner, dom.SignalTransitionComplete, s.onTransitionComplete, dom.ListenOptions{}))
	}

	logger.Debug("stage initialized",
		zap.Int("slides", numSlides),
		zap.String("mode", string(cfg.Mode)),
		zap.Bool("autoscroll", cfg.Autoscroll),
		zap.Bool("autostart", cfg.Autostart))

	controller.RequestInitialReveal()
	return s
}

// onTransitionComplete resolves the pager index from the inner element's parent
func (s *Stage) onTransitionComplete(ev *dom.Event) {
	if ev == nil || ev.Target == nil || ev.Target.Parent() == nil {
		return
	}
	raw, ok := ev.Target.Parent().Attribute(AttrItem)
	if !ok {
		return
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	s.Controller.OnPagerTransitionComplete(index)
}

// Pager returns the pager element for index, nil when out of range
func (s *Stage) Pager(index int) *dom.Element {
	if index < 0 || index >= len(s.Pagers) {
		return nil
	}
	return s.Pagers[index]
}

// Teardown removes every listener the stage registered. The elements stay in the tree.
func (s *Stage) Teardown() {
	s.Recognizer.Unregister()
	for _, fn := range s.unregister {
		fn()
	}
	s.unregister = nil
}
