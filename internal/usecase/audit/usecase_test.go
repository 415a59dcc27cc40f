package audit

import (
	"context"
	"errors"
	"testing"

	"a11y-bot/internal/domain/entity"
	"a11y-bot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_AllSectionsPresentWhenEmpty(t *testing.T) {
	report := Aggregate(entity.ConformanceResult{}, nil, nil, entity.FocusTrapResult{})

	assert.NotNil(t, report.ConformanceViolations())
	assert.NotNil(t, report.ContrastFindings())
	assert.NotNil(t, report.HeuristicFindings())
	assert.NotNil(t, report.FocusTrap().Issues)

	view := report.View()
	assert.NotNil(t, view.ConformanceViolations)
	assert.NotNil(t, view.ContrastFindings)
	assert.NotNil(t, view.HeuristicFindings)
	assert.NotNil(t, view.FocusTrap.Issues)
}

func TestAggregate_PreservesOrderWithoutDedup(t *testing.T) {
	dup := entity.HeuristicFinding{Category: entity.HeuristicAriaRole, Message: "same"}
	heuristic := []entity.HeuristicFinding{
		{Category: entity.HeuristicAltText, Message: "first"},
		dup,
		dup,
	}
	conformance := entity.ConformanceResult{Violations: []entity.ConformanceViolation{{ID: "image-alt"}, {ID: "label"}}}

	report := Aggregate(conformance, nil, heuristic, entity.ConfirmedFocusTrap())

	assert.Equal(t, heuristic, report.HeuristicFindings())
	assert.Equal(t, "image-alt", report.ConformanceViolations()[0].ID)
	assert.Equal(t, "label", report.ConformanceViolations()[1].ID)
	assert.True(t, report.FocusTrap().Passed())
}

func TestAggregate_ReportIsImmutable(t *testing.T) {
	contrast := []entity.ContrastFinding{{Ratio: 1.5, Threshold: entity.ContrastThreshold}}
	report := Aggregate(entity.ConformanceResult{}, contrast, nil, entity.ConfirmedFocusTrap())

	contrast[0].Ratio = 9
	got := report.ContrastFindings()
	got[0].Ratio = 10

	assert.Equal(t, 1.5, report.ContrastFindings()[0].Ratio)
}

func TestRunAudit_FullPage(t *testing.T) {
	closeBtn := el("button", map[string]string{"id": "close"}).styled("rgb(0, 0, 0)", "rgb(255, 255, 255)")
	page := newFakePage(
		el("img", map[string]string{"src": "/hero.jpg", "alt": "picture"}),
		el("header", map[string]string{"role": "banner"}).styled("rgb(120, 120, 120)", "rgb(130, 130, 130)"),
		el("div", map[string]string{"role": "dialog"}, closeBtn),
	)
	page.tabOrder = []*fakeNode{closeBtn, closeBtn, closeBtn, closeBtn, closeBtn, closeBtn}

	conformance := entity.ConformanceResult{Engine: "axe-core", Violations: []entity.ConformanceViolation{{ID: "color-contrast"}}}

	report, err := New(logger.NewNop()).RunAudit(context.Background(), page, conformance)
	require.NoError(t, err)

	assert.Len(t, report.ConformanceViolations(), 1)
	assert.Len(t, report.ContrastFindings(), 1)
	assert.Len(t, report.HeuristicFindingsOf(entity.HeuristicAltText), 1)
	assert.Len(t, report.HeuristicFindingsOf(entity.HeuristicAriaRole), 1)
	assert.True(t, report.FocusTrap().Passed())
	assert.Equal(t, 6, page.tabCount())
}

func TestRunAudit_EmptyPageStillHasEverySection(t *testing.T) {
	report, err := New(logger.NewNop()).RunAudit(context.Background(), newFakePage(), entity.ConformanceResult{Skipped: true})
	require.NoError(t, err)

	assert.Empty(t, report.ConformanceViolations())
	assert.Empty(t, report.ContrastFindings())
	assert.Empty(t, report.HeuristicFindings())
	assert.Equal(t, []string{entity.FocusTrapModalNotFound}, report.FocusTrap().Issues)
}

func TestRunAudit_CollaboratorFailureFailsWholeRun(t *testing.T) {
	page := newFakePage(el("p", nil))
	page.queryErr = errors.New("page crashed")

	report, err := New(logger.NewNop()).RunAudit(context.Background(), page, entity.ConformanceResult{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, page.queryErr)
}
