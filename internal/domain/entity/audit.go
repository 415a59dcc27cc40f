package entity

import "fmt"

// ContrastThreshold is the WCAG AA minimum ratio for body text.
const ContrastThreshold = 4.5

const (
	FocusTrapModalNotFound = "modal dialog not found"
	FocusTrapNoFocusable   = "no focusable elements inside modal"
	FocusTrapConfirmed     = "focus trap works correctly inside modal"
)

// ColorSample is an sRGB triple.
type ColorSample struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

func (c ColorSample) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ContrastFinding is only emitted when Ratio < Threshold.
type ContrastFinding struct {
	Element    ElementRef  `json:"element" yaml:"element"`
	Foreground ColorSample `json:"foreground" yaml:"foreground"`
	Background ColorSample `json:"background" yaml:"background"`
	Ratio      float64     `json:"ratio" yaml:"ratio"`
	Threshold  float64     `json:"threshold" yaml:"threshold"`
}

type HeuristicCategory string

const (
	HeuristicAltText  HeuristicCategory = "alt_text"
	HeuristicAriaRole HeuristicCategory = "aria_role"
)

type HeuristicFinding struct {
	Category HeuristicCategory `json:"category" yaml:"category"`
	Element  ElementRef        `json:"element" yaml:"element"`
	Message  string            `json:"message" yaml:"message"`
}

// FocusTrapResult is the ordered list of messages produced by the focus trap
// simulation. A completed simulation always yields at least one message;
// "no problems" is the single FocusTrapConfirmed message.
type FocusTrapResult struct {
	Issues []string `json:"issues" yaml:"issues"`
}

func ConfirmedFocusTrap() FocusTrapResult {
	return FocusTrapResult{Issues: []string{FocusTrapConfirmed}}
}

// Passed reports whether the result is exactly the canonical success marker.
func (r FocusTrapResult) Passed() bool {
	return len(r.Issues) == 1 && r.Issues[0] == FocusTrapConfirmed
}

// AuditReport is built once per run by the aggregator. Every section is
// non-nil. Accessors hand out copies so the report cannot be changed after
// construction.
type AuditReport struct {
	conformance []ConformanceViolation
	contrast    []ContrastFinding
	heuristic   []HeuristicFinding
	focusTrap   FocusTrapResult
}

func NewAuditReport(
	conformance []ConformanceViolation,
	contrast []ContrastFinding,
	heuristic []HeuristicFinding,
	focusTrap FocusTrapResult,
) *AuditReport {
	return &AuditReport{
		conformance: cloneOrEmpty(conformance),
		contrast:    cloneOrEmpty(contrast),
		heuristic:   cloneOrEmpty(heuristic),
		focusTrap:   FocusTrapResult{Issues: cloneOrEmpty(focusTrap.Issues)},
	}
}

func (r *AuditReport) ConformanceViolations() []ConformanceViolation {
	return cloneOrEmpty(r.conformance)
}

func (r *AuditReport) ContrastFindings() []ContrastFinding {
	return cloneOrEmpty(r.contrast)
}

func (r *AuditReport) HeuristicFindings() []HeuristicFinding {
	return cloneOrEmpty(r.heuristic)
}

func (r *AuditReport) FocusTrap() FocusTrapResult {
	return FocusTrapResult{Issues: cloneOrEmpty(r.focusTrap.Issues)}
}

// HeuristicFindingsOf returns the findings of one category in report order.
func (r *AuditReport) HeuristicFindingsOf(category HeuristicCategory) []HeuristicFinding {
	result := make([]HeuristicFinding, 0)
	for _, f := range r.heuristic {
		if f.Category == category {
			result = append(result, f)
		}
	}
	return result
}

// AuditReportView is the serialisable form of an AuditReport.
type AuditReportView struct {
	ConformanceViolations []ConformanceViolation `json:"conformanceViolations" yaml:"conformance_violations"`
	ContrastFindings      []ContrastFinding      `json:"contrastFindings" yaml:"contrast_findings"`
	HeuristicFindings     []HeuristicFinding     `json:"heuristicFindings" yaml:"heuristic_findings"`
	FocusTrap             FocusTrapResult        `json:"focusTrapResult" yaml:"focus_trap_result"`
}

func (r *AuditReport) View() AuditReportView {
	return AuditReportView{
		ConformanceViolations: r.ConformanceViolations(),
		ContrastFindings:      r.ContrastFindings(),
		HeuristicFindings:     r.HeuristicFindings(),
		FocusTrap:             r.FocusTrap(),
	}
}

func cloneOrEmpty[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
