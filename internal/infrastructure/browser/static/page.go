// Package static serves audits from raw HTML without a browser. Scripts do not
// run and styles come only from inline style attributes, so results describe
// the markup as delivered rather than as rendered.
package static

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	_ output.PageOpener  = (*Opener)(nil)
	_ output.PageSession = (*Page)(nil)
)

var (
	ErrUnsupported   = errors.New("not supported by static pages")
	ErrForeignHandle = errors.New("element handle does not belong to this page")
)

const maxBodySize = 4 << 20

// sequentialFocusSelector approximates which elements a browser puts in the
// Tab order when nothing overrides it.
var sequentialFocusSelector = cascadia.MustCompile(
	`a[href], area[href], button:not([disabled]), input:not([disabled]):not([type="hidden"]), ` +
		`select:not([disabled]), textarea:not([disabled]), summary, [tabindex]`)

// Opener loads pages by plain HTTP GET, or from the local files it was
// created with. Any other local path is refused.
type Opener struct {
	client *http.Client
	files  map[string]bool
}

func NewOpener(timeout time.Duration, files ...string) *Opener {
	o := &Opener{
		client: &http.Client{Timeout: timeout},
		files:  make(map[string]bool, len(files)),
	}
	for _, f := range files {
		if path, ok := absPath(f); ok {
			o.files[path] = true
		}
	}
	return o
}

func (o *Opener) Open(ctx context.Context, target string) (output.PageSession, error) {
	u, err := url.Parse(target)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return o.fetch(ctx, target)
	}

	path := target
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	abs, ok := absPath(path)
	if !ok || !o.files[abs] {
		return nil, fmt.Errorf("%w: only http(s) urls and the configured file are accepted", output.ErrTargetNotAllowed)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewPage(target, bytes.NewReader(data))
}

func absPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs, true
}

func (o *Opener) fetch(ctx context.Context, target string) (output.PageSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("non-OK status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return NewPage(resp.Request.URL.String(), io.LimitReader(resp.Body, maxBodySize))
}

// Page is a parsed HTML document with a minimal focus model.
type Page struct {
	url string
	doc *goquery.Document

	mu     sync.Mutex
	active *html.Node
}

func NewPage(pageURL string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &Page{url: pageURL, doc: doc}, nil
}

func node(h output.ElementHandle) (*html.Node, error) {
	n, ok := h.(*html.Node)
	if !ok || n == nil || n.Type != html.ElementNode {
		return nil, fmt.Errorf("%w: %T", ErrForeignHandle, h)
	}
	return n, nil
}

func find(sel *goquery.Selection, selector string) ([]output.ElementHandle, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	found := sel.FindMatcher(m)
	result := make([]output.ElementHandle, 0, found.Length())
	for _, n := range found.Nodes {
		result = append(result, n)
	}
	return result, nil
}

func (p *Page) QueryAll(_ context.Context, selector string) ([]output.ElementHandle, error) {
	return find(p.doc.Selection, selector)
}

func (p *Page) QueryWithin(_ context.Context, container output.ElementHandle, selector string) ([]output.ElementHandle, error) {
	n, err := node(container)
	if err != nil {
		return nil, err
	}
	return find(goquery.NewDocumentFromNode(n).Selection, selector)
}

// ComputedStyle reads inline declarations only. color inherits from
// ancestors; background-color does not.
func (p *Page) ComputedStyle(_ context.Context, h output.ElementHandle) (entity.ComputedStyle, error) {
	n, err := node(h)
	if err != nil {
		return entity.ComputedStyle{}, err
	}

	var style entity.ComputedStyle
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if v, ok := inlineDeclaration(cur, "color"); ok {
			style.Color = v
			break
		}
	}
	if v, ok := inlineDeclaration(n, "background-color"); ok {
		style.BackgroundColor = v
	} else if v, ok := inlineDeclaration(n, "background"); ok {
		style.BackgroundColor = v
	}
	return style, nil
}

func inlineDeclaration(n *html.Node, property string) (string, bool) {
	styleAttr, ok := attr(n, "style")
	if !ok {
		return "", false
	}
	var value string
	found := false
	for _, decl := range strings.Split(styleAttr, ";") {
		name, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
			found = true
		}
	}
	return value, found
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (p *Page) Attribute(_ context.Context, h output.ElementHandle, name string) (string, bool, error) {
	n, err := node(h)
	if err != nil {
		return "", false, err
	}
	v, ok := attr(n, name)
	return v, ok, nil
}

func (p *Page) Describe(_ context.Context, h output.ElementHandle) (entity.ElementRef, error) {
	n, err := node(h)
	if err != nil {
		return entity.ElementRef{}, err
	}
	return entity.ElementRef{Tag: n.Data, Selector: cssPath(n)}, nil
}

func cssPath(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id, ok := attr(cur, "id"); ok && id != "" {
			parts = append(parts, "#"+id)
			break
		}
		step := cur.Data
		if cur.Parent != nil {
			same, index := 0, 0
			for c := cur.Parent.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == cur.Data {
					same++
					if c == cur {
						index = same
					}
				}
			}
			if same > 1 {
				step += ":nth-of-type(" + strconv.Itoa(index) + ")"
			}
		}
		parts = append(parts, step)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func (p *Page) Focus(_ context.Context, h output.ElementHandle) error {
	n, err := node(h)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.active = n
	p.mu.Unlock()
	return nil
}

// DispatchKey supports Tab only: focus moves to the next element in
// sequential focus order and wraps to the first.
func (p *Page) DispatchKey(_ context.Context, key string) error {
	if key != "Tab" {
		return fmt.Errorf("%w: key %s", ErrUnsupported, key)
	}

	order := p.tabOrder()

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(order) == 0 {
		p.active = nil
		return nil
	}

	next := 0
	for i, n := range order {
		if n == p.active {
			next = (i + 1) % len(order)
			break
		}
	}
	p.active = order[next]
	return nil
}

// tabOrder puts positive tabindex values first in ascending order, then
// everything else in document order. tabindex="-1" is never reachable.
func (p *Page) tabOrder() []*html.Node {
	type stop struct {
		node  *html.Node
		index int
	}

	var stops []stop
	for _, n := range p.doc.Selection.FindMatcher(sequentialFocusSelector).Nodes {
		index := 0
		if v, ok := attr(n, "tabindex"); ok {
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || parsed < 0 {
				continue
			}
			index = parsed
		}
		stops = append(stops, stop{node: n, index: index})
	}

	sort.SliceStable(stops, func(i, j int) bool {
		a, b := stops[i].index, stops[j].index
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})

	order := make([]*html.Node, len(stops))
	for i, s := range stops {
		order[i] = s.node
	}
	return order
}

func (p *Page) ActiveElement(_ context.Context) (output.ElementHandle, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		return p.active, true, nil
	}
	if body := p.doc.Find("body"); body.Length() > 0 {
		return body.Nodes[0], true, nil
	}
	return nil, false, nil
}

func (p *Page) Contains(_ context.Context, container, h output.ElementHandle) (bool, error) {
	c, err := node(container)
	if err != nil {
		return false, err
	}
	n, err := node(h)
	if err != nil {
		return false, err
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == c {
			return true, nil
		}
	}
	return false, nil
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Screenshot(context.Context) (*entity.Screenshot, error) {
	return nil, fmt.Errorf("%w: screenshot", ErrUnsupported)
}

func (p *Page) AddScript(context.Context, string, string) error {
	return fmt.Errorf("%w: scripts", ErrUnsupported)
}

func (p *Page) EvalString(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: scripts", ErrUnsupported)
}

func (p *Page) Close() error {
	return nil
}
