package domain

// SlideFormat tells the renderer how to treat a slide body
type SlideFormat string

const (
	FormatMarkdown SlideFormat = "markdown"
	FormatText     SlideFormat = "text"
)

// Slide represents one stage item
type Slide struct {
	Title  string      `toml:"title" yaml:"title"`
	Body   string      `toml:"body" yaml:"body"`
	Format SlideFormat `toml:"format" yaml:"format"` // empty means markdown
}

// Deck is a set of slides plus the attributes placed on the stage host element.
// Attribute keys use the data-stage-* names, e.g. "data-stage-autoscroll".
type Deck struct {
	Title      string            `toml:"title" yaml:"title"`
	Attributes map[string]string `toml:"attributes" yaml:"attributes"`
	Slides     []Slide           `toml:"slides" yaml:"slides"`
}

// EffectiveFormat returns the slide format with the markdown default applied
func (s Slide) EffectiveFormat() SlideFormat {
	if s.Format == "" {
		return FormatMarkdown
	}
	return s.Format
}
