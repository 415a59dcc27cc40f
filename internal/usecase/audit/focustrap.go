package audit

import (
	"context"
	"fmt"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

const (
	ModalSelector     = `[role="dialog"], [role="alertdialog"]`
	FocusableSelector = `a, button, input, textarea, select, details, [tabindex]:not([tabindex="-1"])`

	// tabOvershoot extra Tab presses past the modal's own tab stops, so a
	// leak on wrap-around is caught as well as one on the first pass.
	tabOvershoot = 5
	tabKey       = "Tab"
)

type focusTrapState int

const (
	stateNoModal focusTrapState = iota
	stateSearching
	stateInModal
	stateEscaped
	stateConfirmed
)

func (s focusTrapState) String() string {
	switch s {
	case stateNoModal:
		return "no_modal"
	case stateSearching:
		return "searching"
	case stateInModal:
		return "in_modal"
	case stateEscaped:
		return "escaped"
	case stateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// FocusTrapSimulator presses Tab inside the first modal dialog and checks
// that focus never leaves it. It moves focus on the page, so it must not run
// alongside anything else that does.
type FocusTrapSimulator struct {
	logger output.LoggerPort
}

func NewFocusTrapSimulator(logger output.LoggerPort) *FocusTrapSimulator {
	return &FocusTrapSimulator{logger: logger}
}

func (f *FocusTrapSimulator) Simulate(ctx context.Context, page output.PagePort) (entity.FocusTrapResult, error) {
	state := stateNoModal
	log := f.logger.WithField("check", "focus_trap")

	modals, err := page.QueryAll(ctx, ModalSelector)
	if err != nil {
		return entity.FocusTrapResult{}, fmt.Errorf("query modal: %w", err)
	}
	if len(modals) == 0 {
		log.Info("Focus trap check finished", "state", state.String())
		return entity.FocusTrapResult{Issues: []string{entity.FocusTrapModalNotFound}}, nil
	}
	modal := modals[0]

	state = stateSearching
	focusable, err := page.QueryWithin(ctx, modal, FocusableSelector)
	if err != nil {
		return entity.FocusTrapResult{}, fmt.Errorf("query focusable elements: %w", err)
	}
	if len(focusable) == 0 {
		log.Info("Focus trap check finished", "state", state.String())
		return entity.FocusTrapResult{Issues: []string{entity.FocusTrapNoFocusable}}, nil
	}

	state = stateInModal
	if err := page.Focus(ctx, focusable[0]); err != nil {
		return entity.FocusTrapResult{}, fmt.Errorf("focus first element: %w", err)
	}

	presses := len(focusable) + tabOvershoot
	for i := 1; i <= presses; i++ {
		if err := page.DispatchKey(ctx, tabKey); err != nil {
			return entity.FocusTrapResult{}, fmt.Errorf("press %s #%d: %w", tabKey, i, err)
		}

		escapedTo, escaped, err := f.escapeTarget(ctx, page, modal)
		if err != nil {
			return entity.FocusTrapResult{}, fmt.Errorf("read focus after press #%d: %w", i, err)
		}
		if escaped {
			state = stateEscaped
			log.Warn("Focus escaped modal", "press", i, "tag", escapedTo, "state", state.String())
			return entity.FocusTrapResult{
				Issues: []string{fmt.Sprintf("Focus escaped modal! Focus is now on <%s> element.", escapedTo)},
			}, nil
		}
	}

	state = stateConfirmed
	log.Info("Focus trap check finished", "presses", presses, "state", state.String())
	return entity.ConfirmedFocusTrap(), nil
}

// escapeTarget returns the tag focus landed on when it is outside the modal.
// No active element counts as an escape to "none".
func (f *FocusTrapSimulator) escapeTarget(ctx context.Context, page output.PagePort, modal output.ElementHandle) (string, bool, error) {
	active, ok, err := page.ActiveElement(ctx)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "none", true, nil
	}

	inside, err := page.Contains(ctx, modal, active)
	if err != nil {
		return "", false, err
	}
	if inside {
		return "", false, nil
	}

	ref, err := page.Describe(ctx, active)
	if err != nil {
		return "", false, err
	}
	return ref.Tag, true, nil
}
