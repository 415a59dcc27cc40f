package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.PageSession = (*PageAdapter)(nil)

var (
	ErrForeignHandle = errors.New("element handle does not belong to this page")
	ErrUnknownKey    = errors.New("unknown key")
)

const maxScreenshotWidth = 1024

var keys = map[string]input.Key{
	"Tab":    input.Tab,
	"Enter":  input.Enter,
	"Escape": input.Escape,
}

// describeJS builds a short CSS path: the nearest id, then tag:nth-of-type steps.
const describeJS = `() => {
	const tag = this.tagName.toLowerCase();
	const parts = [];
	let node = this;
	while (node && node.nodeType === Node.ELEMENT_NODE) {
		if (node.id) {
			parts.unshift('#' + CSS.escape(node.id));
			break;
		}
		let step = node.tagName.toLowerCase();
		const parent = node.parentElement;
		if (parent) {
			const same = Array.from(parent.children).filter(c => c.tagName === node.tagName);
			if (same.length > 1) {
				step += ':nth-of-type(' + (same.indexOf(node) + 1) + ')';
			}
		}
		parts.unshift(step);
		node = parent;
	}
	return { tag: tag, selector: parts.join(' > ') };
}`

const computedStyleJS = `() => {
	const s = window.getComputedStyle(this);
	return { color: s.color, backgroundColor: s.backgroundColor };
}`

// PageAdapter exposes one rod page through output.PageSession.
type PageAdapter struct {
	page    *rod.Page
	timeout time.Duration
}

func newPageAdapter(page *rod.Page, timeout time.Duration) *PageAdapter {
	return &PageAdapter{page: page, timeout: timeout}
}

// ctxPage binds ctx and the per-operation timeout to the page.
func (p *PageAdapter) ctxPage(ctx context.Context) *rod.Page {
	page := p.page.Context(ctx)
	if p.timeout > 0 {
		page = page.Timeout(p.timeout)
	}
	return page
}

func (p *PageAdapter) ctxElement(ctx context.Context, el *rod.Element) *rod.Element {
	el = el.Context(ctx)
	if p.timeout > 0 {
		el = el.Timeout(p.timeout)
	}
	return el
}

func element(h output.ElementHandle) (*rod.Element, error) {
	el, ok := h.(*rod.Element)
	if !ok || el == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignHandle, h)
	}
	return el, nil
}

func toHandles(els rod.Elements) []output.ElementHandle {
	result := make([]output.ElementHandle, len(els))
	for i, el := range els {
		result[i] = el
	}
	return result
}

func (p *PageAdapter) QueryAll(ctx context.Context, selector string) ([]output.ElementHandle, error) {
	els, err := p.ctxPage(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return toHandles(els), nil
}

func (p *PageAdapter) QueryWithin(ctx context.Context, container output.ElementHandle, selector string) ([]output.ElementHandle, error) {
	parent, err := element(container)
	if err != nil {
		return nil, err
	}
	els, err := p.ctxElement(ctx, parent).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q within container: %w", selector, err)
	}
	return toHandles(els), nil
}

func (p *PageAdapter) ComputedStyle(ctx context.Context, h output.ElementHandle) (entity.ComputedStyle, error) {
	el, err := element(h)
	if err != nil {
		return entity.ComputedStyle{}, err
	}
	res, err := p.ctxElement(ctx, el).Eval(computedStyleJS)
	if err != nil {
		return entity.ComputedStyle{}, fmt.Errorf("computed style: %w", err)
	}
	return entity.ComputedStyle{
		Color:           res.Value.Get("color").Str(),
		BackgroundColor: res.Value.Get("backgroundColor").Str(),
	}, nil
}

func (p *PageAdapter) Attribute(ctx context.Context, h output.ElementHandle, name string) (string, bool, error) {
	el, err := element(h)
	if err != nil {
		return "", false, err
	}
	v, err := p.ctxElement(ctx, el).Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("attribute %q: %w", name, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (p *PageAdapter) Describe(ctx context.Context, h output.ElementHandle) (entity.ElementRef, error) {
	el, err := element(h)
	if err != nil {
		return entity.ElementRef{}, err
	}
	res, err := p.ctxElement(ctx, el).Eval(describeJS)
	if err != nil {
		return entity.ElementRef{}, fmt.Errorf("describe element: %w", err)
	}
	return entity.ElementRef{
		Tag:      res.Value.Get("tag").Str(),
		Selector: res.Value.Get("selector").Str(),
	}, nil
}

func (p *PageAdapter) Focus(ctx context.Context, h output.ElementHandle) error {
	el, err := element(h)
	if err != nil {
		return err
	}
	if err := p.ctxElement(ctx, el).Focus(); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	return nil
}

func (p *PageAdapter) DispatchKey(ctx context.Context, key string) error {
	k, ok := keys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := p.ctxPage(ctx).Keyboard.Type(k); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

func (p *PageAdapter) ActiveElement(ctx context.Context) (output.ElementHandle, bool, error) {
	page := p.ctxPage(ctx)
	res, err := page.Evaluate(rod.Eval(`() => document.activeElement`).ByObject())
	if err != nil {
		return nil, false, fmt.Errorf("active element: %w", err)
	}
	if res.ObjectID == "" {
		return nil, false, nil
	}
	el, err := page.ElementFromObject(res)
	if err != nil {
		return nil, false, fmt.Errorf("active element: %w", err)
	}
	return el, true, nil
}

func (p *PageAdapter) Contains(ctx context.Context, container, h output.ElementHandle) (bool, error) {
	parent, err := element(container)
	if err != nil {
		return false, err
	}
	el, err := element(h)
	if err != nil {
		return false, err
	}
	ok, err := p.ctxElement(ctx, parent).ContainsElement(el)
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}
	return ok, nil
}

func (p *PageAdapter) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *PageAdapter) AddScript(ctx context.Context, url, content string) error {
	if err := p.ctxPage(ctx).AddScriptTag(url, content); err != nil {
		return fmt.Errorf("add script: %w", err)
	}
	return nil
}

func (p *PageAdapter) EvalString(ctx context.Context, js string) (string, error) {
	res, err := p.ctxPage(ctx).Eval(js)
	if err != nil {
		return "", fmt.Errorf("eval: %w", err)
	}
	return res.Value.Str(), nil
}

// Screenshot captures the viewport as JPEG, downscaled to at most 1024px wide.
func (p *PageAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := p.ctxPage(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (p *PageAdapter) Close() error {
	return p.page.Close()
}
