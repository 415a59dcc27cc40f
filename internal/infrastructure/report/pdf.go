package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var _ output.ReportRenderer = (*PDFRenderer)(nil)

// PDFRenderer prints the HTML report through the browser and stamps the
// audited URL into the document properties.
type PDFRenderer struct {
	printer output.PDFPrinter
}

func NewPDFRenderer(printer output.PDFPrinter) *PDFRenderer {
	return &PDFRenderer{printer: printer}
}

func (r *PDFRenderer) Format() entity.ReportFormat {
	return entity.ReportFormatPDF
}

func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, doc *entity.ReportDocument) error {
	page, err := renderHTMLString(doc)
	if err != nil {
		return err
	}

	raw, err := r.printer.PrintPDF(ctx, page)
	if err != nil {
		return fmt.Errorf("print pdf: %w", err)
	}

	return StampProperties(bytes.NewReader(raw), w, map[string]string{
		"AuditedURL": doc.TargetURL,
		"Generator":  "a11y-bot",
	})
}

// StampProperties copies a PDF from rs to w with extra document properties.
func StampProperties(rs io.ReadSeeker, w io.Writer, properties map[string]string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.AddProperties(rs, w, properties, conf); err != nil {
		return fmt.Errorf("pdfcpu add properties: %w", err)
	}
	return nil
}
