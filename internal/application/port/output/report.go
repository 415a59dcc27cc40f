package output

import (
	"context"
	"io"

	"a11y-bot/internal/domain/entity"
)

type ReportRenderer interface {
	Format() entity.ReportFormat
	Render(ctx context.Context, w io.Writer, doc *entity.ReportDocument) error
}

// Advisor turns findings into remediation suggestions.
type Advisor interface {
	Suggest(ctx context.Context, targetURL string, report *entity.AuditReport) ([]string, error)
}
