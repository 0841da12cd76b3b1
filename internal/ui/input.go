package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"carousel/internal/dom"
)

// handleMouse translates terminal mouse reports into pointer signals on the handler element.
// A press must land inside the handler. Motion leaving its rows ends the gesture with a
// pointerLeave, while horizontal overshoot is left to the recognizer's bounds check.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	handler := m.stage.Handler
	bounds := handler.Bounds()
	inRows := bounds.ContainsY(msg.Y)

	ev := &dom.Event{
		PageX:    float64(msg.X),
		PageY:    float64(msg.Y),
		HasPageX: true,
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inRows || !bounds.ContainsX(ev.PageX) {
			return
		}
		m.pointerInside = true
		ev.Signal = dom.SignalPointerDown

	case tea.MouseActionMotion:
		if !inRows {
			if m.pointerInside {
				m.pointerInside = false
				m.source.Dispatch(handler, &dom.Event{Signal: dom.SignalPointerLeave})
			}
			return
		}
		m.pointerInside = true
		ev.Signal = dom.SignalPointerMove

	case tea.MouseActionRelease:
		ev.Signal = dom.SignalPointerUp

	default:
		return
	}

	m.logger.Debug("pointer", zap.String("signal", string(ev.Signal)), zap.Int("x", msg.X), zap.Int("y", msg.Y))
	m.source.Dispatch(handler, ev)
}
