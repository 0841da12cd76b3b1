package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// SlideView is what the renderer needs to draw one slide
type SlideView struct {
	Title    string
	Body     string
	Markdown bool
}

// PagerView is the visual state of one pager
type PagerView struct {
	Showing  bool
	Progress float64 // fill fraction in [0, 1]
}

// ViewState contains all the state needed for rendering a frame
type ViewState struct {
	Width       int
	Height      int
	DeckTitle   string
	Slide       *SlideView // nil before the first reveal
	SlideHeight int
	Pagers      []PagerView
	Offset      int
	Status      string
	StatusError bool
	HelpBar     string
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	glamourStyle string

	// glamour renderers are costly to build, keep one per wrap width
	markdown map[int]*glamour.TermRenderer
}

// NewRenderer creates a new renderer. glamourStyle is a glamour standard style name
// or "auto" to detect from the terminal.
func NewRenderer(glamourStyle string) *Renderer {
	return &Renderer{
		styles:       NewStyles(),
		glamourStyle: glamourStyle,
		markdown:     make(map[int]*glamour.TermRenderer),
	}
}

// Styles returns the renderer styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render renders the whole frame
func (r *Renderer) Render(state ViewState) string {
	if state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render(truncate(state.DeckTitle, state.Width)))
	b.WriteString("\n")

	b.WriteString(r.RenderSlide(state.Slide, state.Width, state.SlideHeight))
	b.WriteString("\n")

	b.WriteString(r.RenderPagers(state.Pagers, state.Width))
	b.WriteString("\n")

	footer := r.RenderCounter(state.Offset, len(state.Pagers))
	if state.Status != "" {
		style := r.styles.StatusInfo
		if state.StatusError {
			style = r.styles.StatusError
		}
		footer += "  " + style.Render(state.Status)
	}
	b.WriteString(footer)

	if state.HelpBar != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Help.Render(state.HelpBar))
	}
	return b.String()
}

// RenderSlide renders a slide into a bordered box of the given outer size
func (r *Renderer) RenderSlide(slide *SlideView, width, height int) string {
	innerW := max(width-4, 1)
	innerH := max(height-2, 1)

	var content string
	switch {
	case slide == nil:
		content = r.styles.Dim.Render("…")
	case slide.Markdown:
		content = r.RenderMarkdown(slide.Body, innerW)
	default:
		title := r.styles.SlideTitle.Render(slide.Title)
		body := r.styles.Text.Width(innerW).Render(slide.Body)
		content = lipgloss.JoinVertical(lipgloss.Left, title, "", body)
	}

	content = clipLines(content, innerH)
	return r.styles.Slide.
		Width(innerW + 2).
		Height(innerH).
		Padding(0, 1).
		Render(content)
}

// RenderMarkdown renders markdown with glamour, falling back to the raw text on error
func (r *Renderer) RenderMarkdown(body string, width int) string {
	tr, ok := r.markdown[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(r.styleOption(), glamour.WithWordWrap(width))
		if err != nil {
			return body
		}
		r.markdown[width] = tr
	}
	out, err := tr.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) styleOption() glamour.TermRendererOption {
	if r.glamourStyle == "" || r.glamourStyle == "auto" {
		return glamour.WithAutoStyle()
	}
	return glamour.WithStandardStyle(r.glamourStyle)
}

// RenderPagers renders one progress bar per slide. The showing pager fills over its transition.
func (r *Renderer) RenderPagers(pagers []PagerView, width int) string {
	n := len(pagers)
	if n == 0 {
		return ""
	}
	segment := (width - (n - 1)) / n
	if segment < 1 {
		// too narrow for bars, fall back to one cell per pager
		var b strings.Builder
		for _, p := range pagers {
			if p.Showing {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(r.styles.PagerCurrent)).Render("•"))
			} else {
				b.WriteString(r.styles.Dim.Render("·"))
			}
		}
		return b.String()
	}

	parts := make([]string, 0, n)
	for _, p := range pagers {
		bar := progress.New(
			progress.WithSolidFill(r.styles.PagerFull),
			progress.WithoutPercentage(),
			progress.WithWidth(segment),
		)
		bar.EmptyColor = r.styles.PagerEmpty
		fill := 0.0
		if p.Showing {
			fill = clamp01(p.Progress)
		}
		parts = append(parts, bar.ViewAs(fill))
	}
	return strings.Join(parts, " ")
}

// RenderCounter renders the 1-based position of the active slide
func (r *Renderer) RenderCounter(offset, total int) string {
	if total == 0 {
		return r.styles.Counter.Render("0/0")
	}
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = 1
	p.SetTotalPages(total)
	if offset > 0 {
		p.Page = offset
	}
	return r.styles.Counter.Render(p.View())
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
