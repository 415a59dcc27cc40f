package output

import (
	"context"
	"errors"

	"a11y-bot/internal/domain/entity"
)

// PageSession is one loaded page owned by a single audit run.
type PageSession interface {
	PagePort

	URL() string
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	// AddScript injects a script by URL or by inline content.
	AddScript(ctx context.Context, url, content string) error
	// EvalString runs a JS function on the page and returns its string result.
	EvalString(ctx context.Context, js string) (string, error)

	Close() error
}

// ErrTargetNotAllowed is returned by a PageOpener for targets it refuses to load.
var ErrTargetNotAllowed = errors.New("target not allowed")

type PageOpener interface {
	Open(ctx context.Context, url string) (PageSession, error)
}

type PDFPrinter interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

type BrowserPort interface {
	PageOpener
	PDFPrinter

	IsReady() bool
	Close()
}
