package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

var (
	_ output.ReportRenderer = (*JSONRenderer)(nil)
	_ output.ReportRenderer = (*YAMLRenderer)(nil)
)

// Envelope is the machine-readable report shared by the JSON and YAML
// renderers and the HTTP API.
type Envelope struct {
	ID              string                 `json:"id,omitempty" yaml:"id,omitempty"`
	TargetURL       string                 `json:"targetUrl" yaml:"target_url"`
	GeneratedAt     time.Time              `json:"generatedAt" yaml:"generated_at"`
	ConformanceSkip bool                   `json:"conformanceSkipped" yaml:"conformance_skipped"`
	Audit           entity.AuditReportView `json:"audit" yaml:"audit"`
	Suggestions     []string               `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

func NewEnvelope(doc *entity.ReportDocument) Envelope {
	report := doc.Report
	if report == nil {
		report = entity.NewAuditReport(nil, nil, nil, entity.FocusTrapResult{})
	}
	return Envelope{
		ID:              doc.ID,
		TargetURL:       doc.TargetURL,
		GeneratedAt:     doc.GeneratedAt.UTC(),
		ConformanceSkip: doc.ConformanceSkip,
		Audit:           report.View(),
		Suggestions:     doc.Suggestions,
	}
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Format() entity.ReportFormat {
	return entity.ReportFormatJSON
}

func (r *JSONRenderer) Render(_ context.Context, w io.Writer, doc *entity.ReportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewEnvelope(doc)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

func (r *YAMLRenderer) Format() entity.ReportFormat {
	return entity.ReportFormatYAML
}

func (r *YAMLRenderer) Render(_ context.Context, w io.Writer, doc *entity.ReportDocument) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewEnvelope(doc)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
