package rod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"a11y-bot/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrBrowserClosed = errors.New("browser closed")
)

const (
	defaultSlowMotion        = 0
	defaultTimeout           = 10 * time.Second
	defaultNavigationTimeout = 60 * time.Second
	defaultIdleWait          = 2 * time.Second
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      BrowserConfig
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

type BrowserConfig struct {
	Headless                bool
	SlowMotion              time.Duration
	Timeout                 time.Duration
	NavigationTimeout       time.Duration
	NoSandbox               bool
	DevTools                bool
	Stealth                 bool
	DisableSecurityFeatures bool
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:          true,
		SlowMotion:        defaultSlowMotion,
		Timeout:           defaultTimeout,
		NavigationTimeout: defaultNavigationTimeout,
		NoSandbox:         false,
		DevTools:          false,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}

	var l *launcher.Launcher
	controlURL := cfg.ControlURL
	if controlURL == "" {
		l = launcher.New().
			Context(ctx).
			Headless(cfg.Headless).
			Devtools(cfg.DevTools).
			NoSandbox(cfg.NoSandbox).
			Delete("use-mock-keychain")
		if cfg.DisableSecurityFeatures {
			l = l.Set("disable-web-security").
				Set("allow-running-insecure-content")
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		cfg:      cfg,
		timeout:  cfg.Timeout,
	}, nil
}

// Open creates a fresh tab, navigates to rawURL and waits for the page to
// settle. The caller owns the returned session and must close it.
func (b *BrowserAdapter) Open(ctx context.Context, rawURL string) (output.PageSession, error) {
	if !b.IsReady() {
		return nil, ErrBrowserClosed
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	page, err := b.newPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(rawURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait load: %w", err)
	}
	_ = page.Context(navCtx).WaitIdle(defaultIdleWait)

	return newPageAdapter(page, b.timeout), nil
}

func (b *BrowserAdapter) newPage() (*rod.Page, error) {
	if b.cfg.Stealth {
		return stealth.Page(b.browser)
	}
	return b.browser.Page(proto.TargetCreateTarget{URL: ""})
}

// PrintPDF renders html in a scratch tab and prints it as A4.
func (b *BrowserAdapter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	if !b.IsReady() {
		return nil, ErrBrowserClosed
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	p := page.Context(ctx)
	if err := p.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	stream, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      gson.Num(8.27),
		PaperHeight:     gson.Num(11.69),
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.browser != nil
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
