package audit

import "a11y-bot/internal/domain/entity"

// Aggregate merges the analyzer outputs into one report. It keeps each
// analyzer's order, never merges or dedupes across sections and always
// yields every section, empty or not.
func Aggregate(
	conformance entity.ConformanceResult,
	contrast []entity.ContrastFinding,
	heuristic []entity.HeuristicFinding,
	focusTrap entity.FocusTrapResult,
) *entity.AuditReport {
	return entity.NewAuditReport(conformance.Violations, contrast, heuristic, focusTrap)
}
