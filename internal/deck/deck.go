package deck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"carousel/internal/dom"
	"carousel/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for deck files with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported deck format")
	// ErrEmptyDeck is returned when a deck holds no slides
	ErrEmptyDeck = errors.New("deck has no slides")
)

// Format is the on-disk encoding of a deck
type Format string

const (
	FormatTOML     Format = "toml"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Element attributes carrying slide metadata
const (
	AttrTitle  = "data-title"
	AttrFormat = "data-format"
)

const separator = "---"

// FormatFromPath picks the deck format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and parses the deck at path
func Load(path string) (*domain.Deck, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck %s: %w", path, err)
	}
	if d.Title == "" {
		d.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Parse decodes a deck in the given format
func Parse(data []byte, format Format) (*domain.Deck, error) {
	var d domain.Deck
	switch format {
	case FormatTOML:
		var raw rawDeck
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
		if err := raw.into(&d); err != nil {
			return nil, err
		}
	case FormatYAML:
		var raw rawDeck
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		if err := raw.into(&d); err != nil {
			return nil, err
		}
	case FormatMarkdown, FormatText:
		parsed, err := parseSeparated(data, format)
		if err != nil {
			return nil, err
		}
		d = *parsed
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}
	return &d, nil
}

// rawDeck is the decoded file before attribute values are flattened to strings,
// so that `data-stage-autoscroll = true` works as well as the quoted form
type rawDeck struct {
	Title      string         `toml:"title" yaml:"title"`
	Attributes map[string]any `toml:"attributes" yaml:"attributes"`
	Slides     []domain.Slide `toml:"slides" yaml:"slides"`
}

func (r rawDeck) into(d *domain.Deck) error {
	d.Title = r.Title
	d.Slides = r.Slides
	if len(r.Attributes) == 0 {
		return nil
	}
	d.Attributes = make(map[string]string, len(r.Attributes))
	for k, v := range r.Attributes {
		switch v := v.(type) {
		case string:
			d.Attributes[k] = v
		case bool, int, int64, uint64, float64:
			d.Attributes[k] = fmt.Sprint(v)
		default:
			return fmt.Errorf("attribute %s: expected a string, number or boolean, got %T", k, v)
		}
	}
	return nil
}

// parseSeparated splits a document into slides on lines holding only "---".
// A document starting with "---" opens a YAML front matter block for the deck title and attributes.
func parseSeparated(data []byte, format Format) (*domain.Deck, error) {
	chunks := splitChunks(data)
	d := &domain.Deck{}

	if len(chunks) > 0 && chunks[0].frontMatter {
		var fm rawDeck
		if err := yaml.Unmarshal([]byte(chunks[0].text), &fm); err != nil {
			return nil, fmt.Errorf("failed to parse front matter: %w", err)
		}
		if err := fm.into(d); err != nil {
			return nil, err
		}
		chunks = chunks[1:]
	}

	slideFormat := domain.FormatMarkdown
	if format == FormatText {
		slideFormat = domain.FormatText
	}

	for _, c := range chunks {
		body := strings.TrimSpace(c.text)
		if body == "" {
			continue
		}
		d.Slides = append(d.Slides, domain.Slide{
			Title:  headingOf(body),
			Body:   body,
			Format: slideFormat,
		})
	}
	return d, nil
}

type chunk struct {
	text        string
	frontMatter bool
}

func splitChunks(data []byte) []chunk {
	var (
		chunks  []chunk
		current strings.Builder
		first   = true
		inFront bool
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimRight(line, " \t\r") == separator {
			if first && current.Len() == 0 {
				inFront = true
				first = false
				continue
			}
			chunks = append(chunks, chunk{text: current.String(), frontMatter: inFront})
			current.Reset()
			inFront = false
			first = false
			continue
		}
		if strings.TrimSpace(line) != "" {
			first = false
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	chunks = append(chunks, chunk{text: current.String(), frontMatter: inFront})
	return chunks
}

// headingOf returns the text of a leading markdown heading, or the first line
func headingOf(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	line = strings.TrimSpace(line)
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// BuildTree lays a deck out as a stage host element with one slide element per slide.
// overrides are applied over the deck attributes.
func BuildTree(d *domain.Deck, overrides map[string]string) (*dom.Tree, *dom.Element) {
	tree := dom.NewTree()
	host := tree.CreateElement("div")
	host.SetClassName("stage")
	if d.Title != "" {
		host.SetAttribute(AttrTitle, d.Title)
	}
	for k, v := range d.Attributes {
		host.SetAttribute(k, v)
	}
	for k, v := range overrides {
		host.SetAttribute(k, v)
	}
	tree.AppendChild(tree.Root(), host)

	for i, s := range d.Slides {
		el := tree.CreateElement("section")
		el.SetClassName("stage--item")
		el.SetAttribute("data-stage-item", strconv.Itoa(i))
		el.SetAttribute(AttrTitle, s.Title)
		el.SetAttribute(AttrFormat, string(s.EffectiveFormat()))
		el.SetText(s.Body)
		tree.AppendChild(host, el)
	}
	return tree, host
}
