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

func TestFocusTrap_ModalNotFound(t *testing.T) {
	page := newFakePage(el("button", nil))

	result, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.FocusTrapModalNotFound}, result.Issues)
	assert.False(t, result.Passed())
	assert.Zero(t, page.tabCount())
}

func TestFocusTrap_NoFocusableInsideModal(t *testing.T) {
	page := newFakePage(
		el("button", nil),
		el("div", map[string]string{"role": "alertdialog"},
			el("p", nil),
			el("span", map[string]string{"tabindex": "-1"}),
		),
	)

	result, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.FocusTrapNoFocusable}, result.Issues)
	assert.Zero(t, page.tabCount())
}

func TestFocusTrap_Confirmed(t *testing.T) {
	first := el("input", nil)
	second := el("button", nil)
	third := el("div", map[string]string{"tabindex": "0"})
	page := newFakePage(
		el("a", nil),
		el("div", map[string]string{"role": "dialog"}, first, second, third),
	)
	page.tabOrder = []*fakeNode{second, third, first, second, third, first, second, third}

	result, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.FocusTrapConfirmed}, result.Issues)
	assert.True(t, result.Passed())
	assert.Equal(t, 3+5, page.tabCount())
}

func TestFocusTrap_EscapeStopsImmediately(t *testing.T) {
	first := el("button", nil)
	second := el("button", nil)
	third := el("a", nil)
	outside := el("input", nil)
	page := newFakePage(
		el("div", map[string]string{"role": "dialog"}, first, second, third),
		outside,
	)
	page.tabOrder = []*fakeNode{second, outside, first, second}

	result, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "<input>")
	assert.False(t, result.Passed())
	assert.Equal(t, 2, page.tabCount())
}

func TestFocusTrap_NoActiveElementIsEscape(t *testing.T) {
	btn := el("button", nil)
	page := newFakePage(el("div", map[string]string{"role": "dialog"}, btn))
	page.tabOrder = []*fakeNode{nil}

	result, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "<none>")
	assert.Equal(t, 1, page.tabCount())
}

func TestFocusTrap_UsesFirstModalOnly(t *testing.T) {
	inFirst := el("button", nil)
	inSecond := el("button", nil)
	page := newFakePage(
		el("div", map[string]string{"role": "dialog"}, inFirst),
		el("div", map[string]string{"role": "dialog"}, inSecond),
	)
	page.tabOrder = []*fakeNode{inSecond}

	result, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	require.NoError(t, err)
	assert.Contains(t, result.Issues[0], "Focus escaped modal")
}

func TestFocusTrap_CollaboratorErrorPropagates(t *testing.T) {
	page := newFakePage(el("div", map[string]string{"role": "dialog"}, el("button", nil)))
	page.focusErr = errors.New("node detached")

	_, err := NewFocusTrapSimulator(logger.NewNop()).Simulate(context.Background(), page)
	assert.ErrorIs(t, err, page.focusErr)
}
