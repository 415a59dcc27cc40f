// Package server exposes audits over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"a11y-bot/internal/application/port/input"
	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/application/service"
	"a11y-bot/internal/domain/entity"
	"a11y-bot/internal/infrastructure/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const maxRequestBody = 64 << 10

type Config struct {
	Addr         string
	AuditTimeout time.Duration
	// AccessLogJSON switches request logs from the console format to JSON.
	AccessLogJSON bool
}

type Server struct {
	audits    input.AuditService
	renderers *service.RendererRegistry
	logger    output.LoggerPort
	cfg       Config
	http      *http.Server
}

func New(cfg Config, audits input.AuditService, renderers *service.RendererRegistry, logger output.LoggerPort) *Server {
	if cfg.AuditTimeout <= 0 {
		cfg.AuditTimeout = 2 * time.Minute
	}
	s := &Server{
		audits:    audits,
		renderers: renderers,
		logger:    logger.WithField("component", "server"),
		cfg:       cfg,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	accessLog := httplog.NewLogger("a11y-bot", httplog.Options{
		JSON:    s.cfg.AccessLogJSON,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/formats", s.handleFormats)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.AuditTimeout))
		r.Post("/audits", s.handleAudit)
	})

	return r
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

type auditRequest struct {
	URL        string `json:"url"`
	Format     string `json:"format"`
	Screenshot bool   `json:"screenshot"`
	Suggest    bool   `json:"suggest"`
}

// handleAudit runs one audit synchronously.
// POST /audits {"url": "...", "format": "json"}
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}

	format := entity.ReportFormatJSON
	if req.Format != "" {
		parsed, err := entity.ParseReportFormat(req.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = parsed
	}
	renderer, err := s.renderers.MustGet(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.audits.Audit(r.Context(), input.AuditRequest{
		URL:        req.URL,
		Screenshot: req.Screenshot,
		Suggest:    req.Suggest,
	})
	if err != nil {
		s.logger.Error("Audit failed", "url", req.URL, "error", err)
		switch {
		case errors.Is(err, output.ErrTargetNotAllowed):
			writeError(w, http.StatusBadRequest, "url must be http or https")
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, "audit timed out")
		default:
			writeError(w, http.StatusBadGateway, "audit failed")
		}
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(r.Context(), &buf, doc); err != nil {
		s.logger.Error("Render failed", "url", req.URL, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	if format == entity.ReportFormatPDF {
		w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(req.URL, format)+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	formats := s.renderers.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"formats": names})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
