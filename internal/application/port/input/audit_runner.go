package input

import (
	"context"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

type AuditRunner interface {
	RunAudit(ctx context.Context, page output.PagePort, conformance entity.ConformanceResult) (*entity.AuditReport, error)
}

// AuditRequest describes one end-to-end audit of a URL.
type AuditRequest struct {
	URL        string
	Screenshot bool
	Suggest    bool
}

type AuditService interface {
	Audit(ctx context.Context, req AuditRequest) (*entity.ReportDocument, error)
}
