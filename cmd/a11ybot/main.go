package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"a11y-bot/internal/application/port/input"
	"a11y-bot/internal/di"
	"a11y-bot/internal/domain/entity"
	"a11y-bot/internal/infrastructure/config"
	"a11y-bot/internal/infrastructure/env"
	"a11y-bot/internal/infrastructure/report"
	"a11y-bot/internal/infrastructure/server"
)

const defaultTarget = "https://example.com"

func main() {
	envService := env.NewEnvService()

	cfg, err := config.Load(envService)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	opts, err := parseFlags(cfg, os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.serve {
		os.Exit(serve(ctx, cfg, opts))
	}
	os.Exit(auditOnce(ctx, cfg, opts))
}

type cliOptions struct {
	target     string
	staticFile string
	serve      bool
	listen     string
}

func (o cliOptions) static() bool {
	return o.staticFile != ""
}

// parseFlags applies command line flags on top of cfg and validates the result.
func parseFlags(cfg *config.Config, name string, args []string) (cliOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	format := fs.String("format", cfg.Report.Format, "report format: html, pdf, md, json or yaml (static mode defaults to html)")
	outDir := fs.String("out", cfg.Report.OutDir, "directory for the report file")
	staticFile := fs.String("static", "", "audit a local HTML file or raw HTTP response without a browser")
	serveAPI := fs.Bool("serve", false, "serve the HTTP API instead of auditing once")
	listen := fs.String("listen", cfg.Server.Listen, "address for the HTTP API")
	noAxe := fs.Bool("no-axe", !cfg.Audit.Axe, "skip the axe-core conformance check")
	screenshot := fs.Bool("screenshot", cfg.Audit.Screenshot, "embed a page screenshot in HTML and PDF reports")
	suggest := fs.Bool("suggest", cfg.Audit.Suggest, "ask the OpenRouter model for remediation suggestions")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [url]\n\n", filepath.Base(name))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	formatSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "format" {
			formatSet = true
		}
	})

	opts := cliOptions{
		target:     defaultTarget,
		staticFile: *staticFile,
		serve:      *serveAPI,
		listen:     *listen,
	}
	if opts.static() {
		opts.target = opts.staticFile
	} else if fs.NArg() > 0 {
		opts.target = fs.Arg(0)
	}

	cfg.Audit.Axe = !*noAxe
	cfg.Audit.Screenshot = *screenshot
	cfg.Audit.Suggest = *suggest
	cfg.Report.Format = *format
	cfg.Report.OutDir = *outDir
	cfg.Server.Listen = opts.listen

	if opts.static() && strings.EqualFold(cfg.Report.Format, entity.ReportFormatPDF.String()) {
		if formatSet {
			return cliOptions{}, errors.New("pdf output needs a browser and is not available with -static")
		}
		cfg.Report.Format = entity.ReportFormatHTML.String()
	}
	if err := cfg.Validate(); err != nil {
		return cliOptions{}, err
	}
	return opts, nil
}

func auditOnce(ctx context.Context, cfg *config.Config, opts cliOptions) int {
	target, static := opts.target, opts.static()
	reportFormat, err := entity.ParseReportFormat(cfg.Report.Format)
	if err != nil {
		log.Printf("Invalid format: %v", err)
		return 2
	}

	container, err := di.NewContainer(ctx, di.Options{
		Config:     cfg,
		Static:     static,
		StaticFile: opts.staticFile,
		LogName:    logName(target),
	})
	if err != nil {
		log.Printf("Initialisation failed: %v", err)
		return 1
	}
	defer container.Close()

	renderer, err := container.Renderers.MustGet(reportFormat)
	if err != nil {
		log.Printf("Cannot render report: %v", err)
		return 2
	}

	container.Logger.Info("Audit started", "url", target, "format", reportFormat, "static", static)
	fmt.Printf("Auditing %s...\n", target)

	doc, err := container.Audits.Audit(ctx, input.AuditRequest{
		URL:        target,
		Screenshot: cfg.Audit.Screenshot,
		Suggest:    cfg.Audit.Suggest,
	})
	if err != nil {
		container.Logger.Error("Audit failed", "url", target, "error", err)
		fmt.Fprintf(os.Stderr, "Audit failed: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(cfg.Report.OutDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create output directory: %v\n", err)
		return 1
	}
	path := filepath.Join(cfg.Report.OutDir, report.FileName(target, reportFormat))

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create report file: %v\n", err)
		return 1
	}
	renderErr := renderer.Render(ctx, f, doc)
	closeErr := f.Close()
	if renderErr != nil || closeErr != nil {
		container.Logger.Error("Report write failed", "path", path, "renderError", renderErr, "closeError", closeErr)
		fmt.Fprintf(os.Stderr, "Report write failed: %v\n", firstErr(renderErr, closeErr))
		_ = os.Remove(path)
		return 1
	}

	summary := doc.Report
	container.Logger.Info("Report written",
		"path", path,
		"conformanceViolations", len(summary.ConformanceViolations()),
		"contrastFindings", len(summary.ContrastFindings()),
		"heuristicFindings", len(summary.HeuristicFindings()),
		"focusTrapPassed", summary.FocusTrap().Passed())

	fmt.Printf("Conformance violations: %d\n", len(summary.ConformanceViolations()))
	fmt.Printf("Low-contrast elements:  %d\n", len(summary.ContrastFindings()))
	fmt.Printf("Heuristic findings:     %d\n", len(summary.HeuristicFindings()))
	for _, issue := range summary.FocusTrap().Issues {
		fmt.Printf("Focus trap:             %s\n", issue)
	}
	fmt.Printf("Report saved to %s\n", path)
	return 0
}

func serve(ctx context.Context, cfg *config.Config, opts cliOptions) int {
	container, err := di.NewContainer(ctx, di.Options{
		Config:     cfg,
		Static:     opts.static(),
		StaticFile: opts.staticFile,
		LogName:    "server",
	})
	if err != nil {
		log.Printf("Initialisation failed: %v", err)
		return 1
	}
	defer container.Close()

	srv := server.New(server.Config{
		Addr:          cfg.Server.Listen,
		AuditTimeout:  cfg.Server.AuditTimeout,
		AccessLogJSON: true,
	}, container.Audits, container.Renderers, container.Logger)

	fmt.Printf("Listening on %s\n", cfg.Server.Listen)
	if err := srv.ListenAndServe(ctx); err != nil {
		container.Logger.Error("Server stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}

func logName(target string) string {
	if u, err := url.Parse(target); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return filepath.Base(target)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
