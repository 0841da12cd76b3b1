package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	SlideTitle   lipgloss.Style
	Slide        lipgloss.Style
	Text         lipgloss.Style
	Dim          lipgloss.Style
	Help         lipgloss.Style
	Counter      lipgloss.Style
	StatusError  lipgloss.Style
	StatusInfo   lipgloss.Style
	PagerFull    string
	PagerEmpty   string
	PagerCurrent string
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		SlideTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Slide: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")),
		Text:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:          lipgloss.NewStyle().Faint(true),
		Help:         lipgloss.NewStyle().Faint(true),
		Counter:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusInfo:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		PagerFull:    "214",                                                 // yellow
		PagerEmpty:   "238",
		PagerCurrent: "99",
	}
}
