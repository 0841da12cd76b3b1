package dom

import "strings"

// selector is a single compound selector: tag? (.class | [attr] | [attr=value])*
// Combinators are not supported.
type selector struct {
	tag     string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~,") && !insideBrackets(s) {
		return selector{}, false
	}

	var sel selector
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && isIdentChar(s[i]) {
		sel.tag = strings.ToLower(readIdent())
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readIdent()
			if name == "" {
				return selector{}, false
			}
			sel.classes = append(sel.classes, name)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return selector{}, false
			}
			m, ok := parseAttr(s[i+1 : i+end])
			if !ok {
				return selector{}, false
			}
			sel.attrs = append(sel.attrs, m)
			i += end + 1
		default:
			return selector{}, false
		}
	}
	return sel, true
}

func parseAttr(body string) (attrMatch, bool) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return attrMatch{}, false
	}
	if !hasValue {
		return attrMatch{name: name}, true
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return attrMatch{name: name, value: value, hasValue: true}, true
}

// insideBrackets reports whether every space-like character in s sits inside [...]
func insideBrackets(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ' ', '>', '+', '~', ',':
			if depth == 0 {
				return false
			}
		}
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (sel selector) matches(el *Element) bool {
	if sel.tag != "" && el.tag != sel.tag {
		return false
	}
	for _, c := range sel.classes {
		if !el.HasClass(c) {
			return false
		}
	}
	for _, a := range sel.attrs {
		v, ok := el.attrs[a.name]
		if !ok {
			return false
		}
		if a.hasValue && v != a.value {
			return false
		}
	}
	return true
}
