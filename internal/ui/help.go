package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	row := func(key, desc string) string {
		return fmt.Sprintf("  %s  %s\n", keyStyle.Width(12).Render(key), descStyle.Render(desc))
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("Carousel Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Slides"))
	help.WriteString("\n")
	help.WriteString(row("←, h", "Previous slide"))
	help.WriteString(row("→, l", "Next slide"))
	help.WriteString(row("o", "Open the current slide in the pager"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	help.WriteString(row("drag left", "Next slide"))
	help.WriteString(row("drag right", "Previous slide"))
	help.WriteString(row("click", "Previous slide"))
	help.WriteString("\n")

	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Drags count once they pass the gesture threshold inside the slide area"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(row("?", "Show this help"))
	help.WriteString(row("q, ctrl+c", "Quit"))

	return help.String()
}

// PagerOps runs content through the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// Show shows content using ov pager
func (h *PagerOps) Show(content string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	// Run the oviewer (this will take over the terminal)
	return root.Run()
}

// showInPager returns a command running content through the pager
func (m *Model) showInPager(content string) tea.Cmd {
	if m.pagerOps == nil {
		return func() tea.Msg {
			return pagerClosedMsg{err: fmt.Errorf("program not set")}
		}
	}
	ops := m.pagerOps
	return func() tea.Msg {
		return pagerClosedMsg{err: ops.Show(content)}
	}
}
