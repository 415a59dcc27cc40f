package report

import (
	"context"
	"fmt"
	"io"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var _ output.ReportRenderer = (*MarkdownRenderer)(nil)

// MarkdownRenderer converts the HTML report, so both formats always carry
// the same sections.
type MarkdownRenderer struct {
	conv *converter.Converter
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (r *MarkdownRenderer) Format() entity.ReportFormat {
	return entity.ReportFormatMarkdown
}

func (r *MarkdownRenderer) Render(_ context.Context, w io.Writer, doc *entity.ReportDocument) error {
	withoutShot := *doc
	withoutShot.Screenshot = nil

	page, err := renderHTMLString(&withoutShot)
	if err != nil {
		return err
	}

	md, err := r.conv.ConvertString(page)
	if err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	if _, err := io.WriteString(w, md+"\n"); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}
