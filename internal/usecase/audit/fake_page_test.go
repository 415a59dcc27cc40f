package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

var _ output.PagePort = (*fakePage)(nil)

type fakeNode struct {
	tag      string
	attrs    map[string]string
	style    entity.ComputedStyle
	parent   *fakeNode
	children []*fakeNode
}

func el(tag string, attrs map[string]string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{tag: tag, attrs: attrs}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *fakeNode) styled(color, bg string) *fakeNode {
	n.style = entity.ComputedStyle{Color: color, BackgroundColor: bg}
	return n
}

// fakePage is an in-memory page. Tab presses follow tabOrder when set and
// otherwise do nothing; queryErr makes every query fail.
type fakePage struct {
	mu       sync.Mutex
	root     *fakeNode
	active   *fakeNode
	tabOrder []*fakeNode
	tabs     int
	queryErr error
	focusErr error
}

func newFakePage(body ...*fakeNode) *fakePage {
	return &fakePage{root: el("body", nil, body...)}
}

func (p *fakePage) walk(from *fakeNode, fn func(*fakeNode)) {
	for _, c := range from.children {
		fn(c)
		p.walk(c, fn)
	}
}

func matches(n *fakeNode, selector string) bool {
	_, hasTabindex := n.attrs["tabindex"]
	switch selector {
	case "*":
		return true
	case "img":
		return n.tag == "img"
	case "[role]":
		_, ok := n.attrs["role"]
		return ok
	case ModalSelector:
		return n.attrs["role"] == "dialog" || n.attrs["role"] == "alertdialog"
	case FocusableSelector:
		switch n.tag {
		case "a", "button", "input", "textarea", "select", "details":
			return true
		}
		return hasTabindex && n.attrs["tabindex"] != "-1"
	}
	panic(fmt.Sprintf("fakePage: unsupported selector %q", selector))
}

func (p *fakePage) query(from *fakeNode, selector string) ([]output.ElementHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queryErr != nil {
		return nil, p.queryErr
	}
	result := make([]output.ElementHandle, 0)
	p.walk(from, func(n *fakeNode) {
		if matches(n, selector) {
			result = append(result, n)
		}
	})
	return result, nil
}

func (p *fakePage) QueryAll(_ context.Context, selector string) ([]output.ElementHandle, error) {
	return p.query(p.root, selector)
}

func (p *fakePage) QueryWithin(_ context.Context, container output.ElementHandle, selector string) ([]output.ElementHandle, error) {
	return p.query(container.(*fakeNode), selector)
}

func (p *fakePage) ComputedStyle(_ context.Context, el output.ElementHandle) (entity.ComputedStyle, error) {
	return el.(*fakeNode).style, nil
}

func (p *fakePage) Attribute(_ context.Context, el output.ElementHandle, name string) (string, bool, error) {
	v, ok := el.(*fakeNode).attrs[name]
	return v, ok, nil
}

func (p *fakePage) Describe(_ context.Context, el output.ElementHandle) (entity.ElementRef, error) {
	n := el.(*fakeNode)
	selector := n.tag
	if id, ok := n.attrs["id"]; ok {
		selector += "#" + id
	}
	return entity.ElementRef{Tag: n.tag, Selector: selector}, nil
}

func (p *fakePage) Focus(_ context.Context, el output.ElementHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focusErr != nil {
		return p.focusErr
	}
	p.active = el.(*fakeNode)
	return nil
}

func (p *fakePage) DispatchKey(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if key != "Tab" {
		return errors.New("fakePage: unexpected key " + key)
	}
	if p.tabs < len(p.tabOrder) {
		p.active = p.tabOrder[p.tabs]
	}
	p.tabs++
	return nil
}

func (p *fakePage) ActiveElement(_ context.Context) (output.ElementHandle, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil, false, nil
	}
	return p.active, true, nil
}

func (p *fakePage) Contains(_ context.Context, container, el output.ElementHandle) (bool, error) {
	c := container.(*fakeNode)
	for n := el.(*fakeNode); n != nil; n = n.parent {
		if n == c {
			return true, nil
		}
	}
	return false, nil
}

func (p *fakePage) tabCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tabs
}
