// Package orchestrator runs one full audit: open the page, run conformance
// checks and the audit core, then attach the optional extras.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"a11y-bot/internal/application/port/input"
	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"github.com/google/uuid"
)

var _ input.AuditService = (*UseCase)(nil)

var ErrEmptyURL = errors.New("empty target url")

type UseCase struct {
	opener      output.PageOpener
	conformance output.ConformanceChecker
	runner      input.AuditRunner
	advisor     output.Advisor
	logger      output.LoggerPort
	now         func() time.Time
	newID       func() string
}

// New builds the use case. conformance and advisor may be nil: the report is
// then marked as not conformance-checked and suggestion requests are ignored.
func New(
	opener output.PageOpener,
	conformance output.ConformanceChecker,
	runner input.AuditRunner,
	advisor output.Advisor,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		opener:      opener,
		conformance: conformance,
		runner:      runner,
		advisor:     advisor,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (uc *UseCase) Audit(ctx context.Context, req input.AuditRequest) (*entity.ReportDocument, error) {
	if req.URL == "" {
		return nil, ErrEmptyURL
	}

	id := uc.newID()
	log := uc.logger.WithFields(map[string]any{"auditId": id, "url": req.URL})
	log.Info("Opening page")

	page, err := uc.opener.Open(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.URL, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("Failed to close page", "error", err)
		}
	}()

	conformance := uc.checkConformance(ctx, page, log)

	report, err := uc.runner.RunAudit(ctx, page, conformance)
	if err != nil {
		return nil, fmt.Errorf("audit %s: %w", req.URL, err)
	}

	doc := &entity.ReportDocument{
		ID:              id,
		TargetURL:       req.URL,
		GeneratedAt:     uc.now(),
		Report:          report,
		ConformanceSkip: conformance.Skipped,
	}

	if req.Screenshot {
		shot, err := page.Screenshot(ctx)
		if err != nil {
			log.Warn("Screenshot unavailable", "error", err)
		} else {
			doc.Screenshot = shot
		}
	}

	if req.Suggest {
		doc.Suggestions = uc.suggest(ctx, req.URL, report, log)
	}

	return doc, nil
}

// checkConformance never fails the run: a page that blocks the injected
// engine (CSP, offline page) still gets the rest of the audit.
func (uc *UseCase) checkConformance(ctx context.Context, page output.PageSession, log output.LoggerPort) entity.ConformanceResult {
	if uc.conformance == nil {
		return entity.ConformanceResult{Skipped: true}
	}

	result, err := uc.conformance.Check(ctx, page)
	if err != nil {
		log.Warn("Conformance check failed, continuing without it", "error", err)
		return entity.ConformanceResult{Engine: result.Engine, Skipped: true}
	}

	log.Info("Conformance check completed", "engine", result.Engine, "violations", len(result.Violations))
	return result
}

func (uc *UseCase) suggest(ctx context.Context, url string, report *entity.AuditReport, log output.LoggerPort) []string {
	if uc.advisor == nil {
		log.Warn("Suggestions requested but no advisor is configured")
		return nil
	}

	suggestions, err := uc.advisor.Suggest(ctx, url, report)
	if err != nil {
		log.Warn("Suggestions unavailable", "error", err)
		return nil
	}
	return suggestions
}
