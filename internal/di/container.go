package di

import (
	"context"
	"fmt"

	"a11y-bot/internal/application/port/input"
	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/application/service"
	"a11y-bot/internal/infrastructure/browser/rod"
	"a11y-bot/internal/infrastructure/browser/static"
	"a11y-bot/internal/infrastructure/config"
	"a11y-bot/internal/infrastructure/conformance/axe"
	"a11y-bot/internal/infrastructure/llm/openrouter"
	"a11y-bot/internal/infrastructure/logger"
	"a11y-bot/internal/infrastructure/report"
	"a11y-bot/internal/usecase/audit"
	"a11y-bot/internal/usecase/orchestrator"
)

type Container struct {
	Config    *config.Config
	Logger    output.LoggerPort
	Browser   output.BrowserPort
	Audits    input.AuditService
	Renderers *service.RendererRegistry
}

type Options struct {
	Config *config.Config
	// Static audits raw HTML without launching a browser. Conformance checks,
	// screenshots and PDF output are unavailable in this mode.
	Static bool
	// StaticFile is the only local file the static opener may read.
	StaticFile string
	// LogName names the log file; usually the audited host.
	LogName string
	// Logger replaces the file logger, mostly for tests.
	Logger output.LoggerPort
}

func NewContainer(ctx context.Context, opts Options) (*Container, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	log := opts.Logger
	if log == nil {
		fileLog, err := logger.NewLoggerAdapter(opts.LogName)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = fileLog
	}

	c := &Container{
		Config:    cfg,
		Logger:    log,
		Renderers: service.NewRendererRegistry(),
	}

	var opener output.PageOpener
	if opts.Static {
		opener = static.NewOpener(cfg.Browser.NavigationTimeout, opts.StaticFile)
	} else {
		browser, err := rod.NewBrowserAdapter(ctx, browserConfig(cfg))
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		c.Browser = browser
		opener = browser
	}

	var checker output.ConformanceChecker
	if cfg.Audit.Axe && !opts.Static {
		runner, err := axe.NewRunner(axeConfig(cfg), log)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create conformance runner: %w", err)
		}
		checker = runner
	}

	var advisor output.Advisor
	if cfg.AdvisorEnabled() {
		llmCfg := openrouter.DefaultConfig(cfg.Advisor.APIKey, cfg.Advisor.Model)
		llmCfg.BaseURL = cfg.Advisor.BaseURL
		llmCfg.Temperature = float32(cfg.Advisor.Temperature)
		llmCfg.Logger = log
		advisor = openrouter.NewAdvisor(llmCfg)
	}

	c.Audits = orchestrator.New(opener, checker, audit.New(log), advisor, log)
	registerRenderers(c.Renderers, c.Browser)

	return c, nil
}

func browserConfig(cfg *config.Config) rod.BrowserConfig {
	bc := rod.DefaultConfig()
	bc.Headless = cfg.Browser.Headless
	bc.NoSandbox = cfg.Browser.NoSandbox
	bc.Stealth = cfg.Browser.Stealth
	bc.ControlURL = cfg.Browser.Remote
	bc.Timeout = cfg.Browser.Timeout
	bc.NavigationTimeout = cfg.Browser.NavigationTimeout
	return bc
}

func axeConfig(cfg *config.Config) axe.Config {
	ac := axe.DefaultConfig()
	if cfg.Audit.AxeScriptPath != "" {
		ac.ScriptPath = cfg.Audit.AxeScriptPath
	}
	if cfg.Audit.AxeScriptURL != "" {
		ac.ScriptURL = cfg.Audit.AxeScriptURL
	}
	ac.Tags = cfg.Audit.AxeTags
	return ac
}

// registerRenderers adds PDF only when a browser is available to print it.
func registerRenderers(registry *service.RendererRegistry, browser output.BrowserPort) {
	registry.Register(report.NewHTMLRenderer())
	registry.Register(report.NewMarkdownRenderer())
	registry.Register(report.NewJSONRenderer())
	registry.Register(report.NewYAMLRenderer())
	if browser != nil {
		registry.Register(report.NewPDFRenderer(browser))
	}
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
