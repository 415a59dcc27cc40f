package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"a11y-bot/internal/application/port/input"
	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

var _ input.AuditRunner = (*UseCase)(nil)

type UseCase struct {
	contrast  *ContrastAnalyzer
	heuristic *HeuristicScanner
	focusTrap *FocusTrapSimulator
	logger    output.LoggerPort
}

func New(logger output.LoggerPort) *UseCase {
	return &UseCase{
		contrast:  NewContrastAnalyzer(logger),
		heuristic: NewHeuristicScanner(logger),
		focusTrap: NewFocusTrapSimulator(logger),
		logger:    logger,
	}
}

// RunAudit runs the read-only analyzers side by side, then the focus trap
// simulation on its own, and aggregates. Any page failure fails the run.
func (uc *UseCase) RunAudit(ctx context.Context, page output.PagePort, conformance entity.ConformanceResult) (*entity.AuditReport, error) {
	start := time.Now()

	var (
		wg           sync.WaitGroup
		contrast     []entity.ContrastFinding
		heuristic    []entity.HeuristicFinding
		contrastErr  error
		heuristicErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		contrast, contrastErr = uc.contrast.Analyze(ctx, page)
	}()
	go func() {
		defer wg.Done()
		heuristic, heuristicErr = uc.heuristic.Scan(ctx, page)
	}()
	wg.Wait()

	if contrastErr != nil {
		return nil, fmt.Errorf("contrast analysis failed: %w", contrastErr)
	}
	if heuristicErr != nil {
		return nil, fmt.Errorf("heuristic scan failed: %w", heuristicErr)
	}

	focusTrap, err := uc.focusTrap.Simulate(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("focus trap simulation failed: %w", err)
	}

	report := Aggregate(conformance, contrast, heuristic, focusTrap)

	uc.logger.Info("Audit completed",
		"conformance_violations", len(conformance.Violations),
		"contrast_findings", len(contrast),
		"heuristic_findings", len(heuristic),
		"focus_trap_passed", focusTrap.Passed(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}
