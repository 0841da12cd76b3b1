package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"carousel/internal/config"
	"carousel/internal/deck"
	"carousel/internal/dom"
	"carousel/internal/domain"
	"carousel/internal/eventbus"
	"carousel/internal/stage"
	"carousel/internal/ui/views"
)

const (
	// handlerPadding keeps the drag area clear of the slide border
	handlerPadding = 2
	frameInterval  = 100 * time.Millisecond
)

// Options configures a Model
type Options struct {
	Bus    eventbus.EventBus
	Config *config.Config
	Logger *zap.Logger
	// DeckPath is reloaded when a DeckChangedEvent for it arrives
	DeckPath string
	// Overrides are host attributes that win over the deck and the config
	Overrides map[string]string
}

// transition tracks the fill animation of one pager
type transition struct {
	gen     int
	showing bool
	started time.Time
}

// Model represents the UI state
type Model struct {
	bus       eventbus.EventBus
	config    *config.Config
	logger    *zap.Logger
	deckPath  string
	overrides map[string]string

	deck   *domain.Deck
	tree   *dom.Tree
	source *dom.EventSource
	queue  *stage.TaskQueue
	stage  *stage.Stage
	// mounts counts stage rebuilds so messages for a previous stage are dropped
	mounts      int
	stopObserve func()

	transitions map[int]*transition
	pending     []tea.Cmd

	width         int
	height        int
	pointerInside bool
	status        string
	statusError   bool

	keys     keyMap
	help     help.Model
	renderer *views.Renderer
	now      func() time.Time

	// Program reference for terminal management
	pagerOps *PagerOps
}

// NewModel creates a new UI model showing d
func NewModel(d *domain.Deck, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		bus:       opts.Bus,
		config:    cfg,
		logger:    logger.Named("ui"),
		deckPath:  opts.DeckPath,
		overrides: opts.Overrides,
		keys:      defaultKeyMap(),
		help:      help.New(),
		renderer:  views.NewRenderer(cfg.UI.GlamourStyle),
		now:       time.Now,
	}
	m.mount(d)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pagerOps = NewPagerOps(p)
}

// Stage returns the mounted stage
func (m *Model) Stage() *stage.Stage { return m.stage }

// mount builds a fresh element tree and stage for d, tearing down the previous one
func (m *Model) mount(d *domain.Deck) {
	if m.stage != nil {
		m.stage.Teardown()
		m.stopObserve()
	}

	m.mounts++
	m.deck = d
	m.transitions = make(map[int]*transition)
	m.pointerInside = false

	tree, host := deck.BuildTree(d, m.hostAttributes(d))
	m.tree = tree
	m.source = dom.NewEventSource()
	m.queue = stage.NewTaskQueue()
	m.stopObserve = tree.ObserveClasses(m.onClassChange)

	m.stage = stage.InitOn(tree, host, m.source, stage.Options{
		Gesture: m.config.GestureConfig(),
		Logger:  m.logger,
		Bus:     m.bus,
		Queue:   m.queue,
	})
	m.layout()

	m.logger.Info("deck mounted",
		zap.String("title", d.Title),
		zap.Int("slides", m.stage.Controller.NumSlides()),
		zap.Int("mount", m.mounts))
}

// hostAttributes layers the config stage defaults under the deck and the overrides over it
func (m *Model) hostAttributes(d *domain.Deck) map[string]string {
	attrs := map[string]string{}
	for k, v := range m.config.StageConfig().Attributes() {
		if _, ok := d.Attributes[k]; !ok {
			attrs[k] = v
		}
	}
	for k, v := range m.overrides {
		attrs[k] = v
	}
	return attrs
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.flush(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case drainMsg:
		if msg.mount == m.mounts {
			m.queue.Drain()
		}

	case transitionDoneMsg:
		m.completeTransition(msg)

	case tickMsg:
		if m.stage.Recognizer.Expire(time.Time(msg)) {
			m.logger.Debug("gesture expired")
			if m.bus != nil {
				m.bus.Publish(eventbus.GestureExpiredEvent{})
			}
		}
		cmds = append(cmds, m.tick())

	case pagerClosedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("pager: %w", msg.err))
		}

	case EventMsg:
		cmds = append(cmds, m.handleEvent(msg.Event))

	case deckLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.mount(msg.deck)
		m.setStatus("deck reloaded")
	}

	cmds = append(cmds, m.flush())
	return m, tea.Batch(cmds...)
}

// flush hands out the timers started during this update and schedules a queue drain
func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	if m.queue.Pending() > 0 {
		mount := m.mounts
		cmds = append(cmds, func() tea.Msg { return drainMsg{mount: mount} })
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.stage.Controller.Retreat()
	case key.Matches(msg, m.keys.Next):
		m.stage.Controller.Advance()
	case key.Matches(msg, m.keys.Help):
		return m.showInPager(NewHelpRenderer().RenderHelpContent())
	case key.Matches(msg, m.keys.Open):
		slide := m.currentSlide()
		if slide == nil {
			return nil
		}
		content := slide.Body
		if slide.Markdown {
			content = m.renderer.RenderMarkdown(slide.Body, max(m.width-2, 20))
		}
		return m.showInPager(content)
	}
	return nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.DeckChangedEvent:
		if m.deckPath == "" {
			return nil
		}
		path := m.deckPath
		return func() tea.Msg {
			d, err := deck.Load(path)
			return deckLoadedMsg{deck: d, err: err}
		}
	case eventbus.ErrorEvent:
		if e.Err == nil {
			m.setError(errors.New(e.Message))
			break
		}
		m.setError(fmt.Errorf("%s: %w", e.Message, e.Err))
	}
	return nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusError = false
}

func (m *Model) setError(err error) {
	m.logger.Error("ui error", zap.Error(err))
	m.status = err.Error()
	m.statusError = true
}

// layout assigns the handler element its on-screen box
func (m *Model) layout() {
	if m.stage == nil || m.width == 0 {
		return
	}
	m.stage.Handler.SetBounds(dom.Rect{
		Left:   handlerPadding,
		Top:    1,
		Width:  max(m.width-1-2*handlerPadding, 0),
		Height: m.slideHeight(),
	})
}

// slideHeight is what remains after the title, pager and footer rows
func (m *Model) slideHeight() int {
	rows := 3
	if m.config.UI.ShowHelpBar {
		rows++
	}
	return max(m.height-rows, 3)
}

func (m *Model) transitionDuration() time.Duration {
	return time.Duration(m.config.UI.TransitionDuration)
}

// onClassChange starts a fill timer whenever a pager gains or loses the showing class
func (m *Model) onClassChange(el *dom.Element, class string, added bool) {
	if class != stage.ClassPagerShowing || !el.HasClass(stage.ClassPager) {
		return
	}
	raw, _ := el.Attribute(stage.AttrItem)
	index, err := strconv.Atoi(raw)
	if err != nil {
		return
	}

	t := m.transitions[index]
	if t == nil {
		t = &transition{}
		m.transitions[index] = t
	}
	t.gen++
	t.showing = added
	t.started = m.now()

	done := transitionDoneMsg{mount: m.mounts, index: index, gen: t.gen}
	m.pending = append(m.pending, tea.Tick(m.transitionDuration(), func(time.Time) tea.Msg {
		return done
	}))
}

// completeTransition reports the end of a fill to the pager's inner element
func (m *Model) completeTransition(msg transitionDoneMsg) {
	if msg.mount != m.mounts {
		return
	}
	t, ok := m.transitions[msg.index]
	if !ok || t.gen != msg.gen {
		return
	}
	pager := m.stage.Pager(msg.index)
	if pager == nil {
		return
	}
	inner := pager.Find("." + stage.ClassPagerInner)
	if inner == nil {
		return
	}
	m.source.Dispatch(inner, &dom.Event{Signal: dom.SignalTransitionComplete})
}

// currentSlide reads the showing slide back from the element tree
func (m *Model) currentSlide() *views.SlideView {
	el := m.stage.Host.Find("." + stage.ClassSlideShowing)
	if el == nil {
		return nil
	}
	title, _ := el.Attribute(deck.AttrTitle)
	format, _ := el.Attribute(deck.AttrFormat)
	return &views.SlideView{
		Title:    title,
		Body:     el.Text(),
		Markdown: format != string(domain.FormatText),
	}
}

// View renders the current frame
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	pagers := make([]views.PagerView, len(m.stage.Pagers))
	now := m.now()
	for i, el := range m.stage.Pagers {
		pv := views.PagerView{Showing: el.HasClass(stage.ClassPagerShowing)}
		if t, ok := m.transitions[i]; ok && t.showing && m.transitionDuration() > 0 {
			pv.Progress = float64(now.Sub(t.started)) / float64(m.transitionDuration())
		}
		pagers[i] = pv
	}

	state := views.ViewState{
		Width:       m.width,
		Height:      m.height,
		DeckTitle:   m.deck.Title,
		Slide:       m.currentSlide(),
		SlideHeight: m.slideHeight(),
		Pagers:      pagers,
		Offset:      m.stage.Controller.Offset(),
		Status:      m.status,
		StatusError: m.statusError,
	}
	if m.config.UI.ShowHelpBar {
		state.HelpBar = m.help.View(m.keys)
	}
	return m.renderer.Render(state)
}
