package entity

import (
	"fmt"
	"strings"
	"time"
)

type ReportFormat string

const (
	ReportFormatHTML     ReportFormat = "html"
	ReportFormatPDF      ReportFormat = "pdf"
	ReportFormatMarkdown ReportFormat = "md"
	ReportFormatJSON     ReportFormat = "json"
	ReportFormatYAML     ReportFormat = "yaml"
)

func (f ReportFormat) String() string {
	return string(f)
}

// ParseReportFormat accepts the format names case-insensitively; "markdown"
// is an alias for md.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ReportFormatHTML, ReportFormatPDF, ReportFormatMarkdown, ReportFormatJSON, ReportFormatYAML:
		return f, nil
	case "markdown":
		return ReportFormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ReportDocument is everything a renderer needs: the audit result plus the
// context it was produced in.
type ReportDocument struct {
	ID              string
	TargetURL       string
	GeneratedAt     time.Time
	Report          *AuditReport
	ConformanceSkip bool
	Suggestions     []string
	Screenshot      *Screenshot
}
