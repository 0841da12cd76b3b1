package stage

import (
	"fmt"

	"go.uber.org/zap"

	"carousel/internal/dom"
)

// CSS-style class names used on the element tree
const (
	ClassSlideShowing       = "stage--item__showing"
	ClassInteractionHandler = "stage--interaction-handler"
	ClassPagers             = "stage--item-pagers"
	ClassPager              = "stage--item-pager"
	ClassPagerInner         = "stage--item-pager-inner"
	ClassPagerShowing       = "stage--item-pager__showing"
)

// DOMPresenter toggles showing classes on the slides and pagers under host
type DOMPresenter struct {
	host   *dom.Element
	logger *zap.Logger
}

// NewDOMPresenter creates a presenter operating below host
func NewDOMPresenter(host *dom.Element, logger *zap.Logger) *DOMPresenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DOMPresenter{host: host, logger: logger}
}

// Present moves the showing classes from oldOffset to newOffset. Missing elements are skipped.
func (p *DOMPresenter) Present(oldOffset, newOffset int) {
	if oldOffset == newOffset {
		return
	}
	if oldOffset >= 0 {
		if slide := p.Slide(oldOffset); slide != nil {
			slide.RemoveClass(ClassSlideShowing)
		}
		if pager := p.Pager(oldOffset); pager != nil {
			pager.RemoveClass(ClassPagerShowing)
		}
	}
	if newOffset >= 0 {
		if slide := p.Slide(newOffset); slide != nil {
			slide.AddClass(ClassSlideShowing)
		}
		if pager := p.Pager(newOffset); pager != nil {
			pager.AddClass(ClassPagerShowing)
		}
	}
}

// IsShowing reports whether the pager at index carries the showing class
func (p *DOMPresenter) IsShowing(index int) bool {
	pager := p.Pager(index)
	return pager != nil && pager.HasClass(ClassPagerShowing)
}

// Slide returns the slide element for index, nil when missing
func (p *DOMPresenter) Slide(index int) *dom.Element {
	el := p.host.Find(fmt.Sprintf(`[%s="%d"]`, AttrItem, index))
	if el == nil || el.HasClass(ClassPager) {
		p.logger.Debug("slide element missing", zap.Int("index", index))
		return nil
	}
	return el
}

// Pager returns the pager element for index, nil when missing
func (p *DOMPresenter) Pager(index int) *dom.Element {
	el := p.host.Find(fmt.Sprintf(`.%s[%s="%d"]`, ClassPager, AttrItem, index))
	if el == nil {
		p.logger.Debug("pager element missing", zap.Int("index", index))
	}
	return el
}
