package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

var _ output.ReportRenderer = (*HTMLRenderer)(nil)

//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html.tmpl"))

type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) Format() entity.ReportFormat {
	return entity.ReportFormatHTML
}

func (r *HTMLRenderer) Render(_ context.Context, w io.Writer, doc *entity.ReportDocument) error {
	if err := reportTemplate.Execute(w, newDocumentView(doc)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func renderHTMLString(doc *entity.ReportDocument) (string, error) {
	var buf bytes.Buffer
	if err := NewHTMLRenderer().Render(context.Background(), &buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatRatio(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
