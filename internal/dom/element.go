package dom

import (
	"strings"
)

// Rect is the on-screen box of an element in terminal cells
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// ContainsX reports whether x lies within [Left, Left+Width]. Both edges are inclusive.
func (r Rect) ContainsX(x float64) bool {
	return x >= float64(r.Left) && x <= float64(r.Left+r.Width)
}

// ContainsY reports whether y lies within [Top, Top+Height).
func (r Rect) ContainsY(y int) bool {
	return y >= r.Top && y < r.Top+r.Height
}

// ClassObserver is notified whenever an element's class set actually changes
type ClassObserver func(el *Element, class string, added bool)

// Tree owns a set of elements and the observers watching their classes
type Tree struct {
	root      *Element
	observers []ClassObserver
}

// NewTree creates an empty tree with a document root element
func NewTree() *Tree {
	t := &Tree{}
	t.root = t.CreateElement("document")
	return t
}

// Root returns the document element
func (t *Tree) Root() *Element {
	return t.root
}

// CreateElement creates a detached element owned by this tree
func (t *Tree) CreateElement(tag string) *Element {
	return &Element{
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
		tree:  t,
	}
}

// AppendChild attaches child as the last child of parent, detaching it from any previous parent
func (t *Tree) AppendChild(parent, child *Element) {
	if parent == nil || child == nil {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = parent
	parent.children = append(parent.children, child)
}

// Find returns the first element under the document root matching selector
func (t *Tree) Find(selector string) *Element {
	return t.root.Find(selector)
}

// ObserveClasses registers an observer for class changes and returns a function removing it
func (t *Tree) ObserveClasses(fn ClassObserver) func() {
	t.observers = append(t.observers, fn)
	idx := len(t.observers) - 1
	return func() {
		if idx < len(t.observers) {
			t.observers[idx] = nil
		}
	}
}

func (t *Tree) notify(el *Element, class string, added bool) {
	for _, fn := range t.observers {
		if fn != nil {
			fn(el, class, added)
		}
	}
}

// Element is a node of the tree
type Element struct {
	tag      string
	classes  []string
	attrs    map[string]string
	text     string
	children []*Element
	parent   *Element
	bounds   Rect
	tree     *Tree
}

// Tag returns the lower-cased tag name
func (e *Element) Tag() string { return e.tag }

// Parent returns the parent element or nil when detached
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements in document order
func (e *Element) Children() []*Element { return e.children }

// Text returns the element's own text content
func (e *Element) Text() string { return e.text }

// SetText sets the element's own text content
func (e *Element) SetText(text string) { e.text = text }

// Bounds returns the last layout box assigned to the element
func (e *Element) Bounds() Rect { return e.bounds }

// SetBounds records the layout box computed by the renderer
func (e *Element) SetBounds(r Rect) { e.bounds = r }

// SetAttribute sets an attribute value
func (e *Element) SetAttribute(name, value string) {
	e.attrs[name] = value
}

// Attribute returns an attribute value and whether it is present
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// HasAttribute reports whether the attribute is present
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetClassName replaces the class list with the space separated classes in s
func (e *Element) SetClassName(s string) {
	for _, c := range append([]string(nil), e.classes...) {
		e.RemoveClass(c)
	}
	for _, c := range strings.Fields(s) {
		e.AddClass(c)
	}
}

// ClassName returns the class list joined by spaces
func (e *Element) ClassName() string {
	return strings.Join(e.classes, " ")
}

// HasClass reports whether the element carries class
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class if missing
func (e *Element) AddClass(class string) {
	if class == "" || e.HasClass(class) {
		return
	}
	e.classes = append(e.classes, class)
	if e.tree != nil {
		e.tree.notify(e, class, true)
	}
}

// RemoveClass removes class if present
func (e *Element) RemoveClass(class string) {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i:i], e.classes[i+1:]...)
			if e.tree != nil {
				e.tree.notify(e, class, false)
			}
			return
		}
	}
}

// Find returns the first descendant (depth-first, document order) matching selector.
// An unparsable selector matches nothing.
func (e *Element) Find(selector string) *Element {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	var found *Element
	e.walk(func(el *Element) bool {
		if sel.matches(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant matching selector in document order
func (e *Element) FindAll(selector string) []*Element {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	var out []*Element
	e.walk(func(el *Element) bool {
		if sel.matches(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// walk visits descendants of e (not e itself) until fn returns false
func (e *Element) walk(fn func(*Element) bool) bool {
	for _, c := range e.children {
		if !fn(c) {
			return false
		}
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}
