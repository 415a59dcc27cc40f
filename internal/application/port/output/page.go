package output

import (
	"context"

	"a11y-bot/internal/domain/entity"
)

// ElementHandle is an opaque reference to a node owned by a PagePort
// implementation. Handles are only meaningful to the page that returned them.
type ElementHandle any

// PagePort is the rendered page an audit run reads from. Every method may
// block on the browser; errors are collaborator failures and abort the run.
type PagePort interface {
	QueryAll(ctx context.Context, selector string) ([]ElementHandle, error)
	QueryWithin(ctx context.Context, container ElementHandle, selector string) ([]ElementHandle, error)
	ComputedStyle(ctx context.Context, el ElementHandle) (entity.ComputedStyle, error)
	Attribute(ctx context.Context, el ElementHandle, name string) (string, bool, error)
	Describe(ctx context.Context, el ElementHandle) (entity.ElementRef, error)

	Focus(ctx context.Context, el ElementHandle) error
	DispatchKey(ctx context.Context, key string) error
	ActiveElement(ctx context.Context) (ElementHandle, bool, error)
	Contains(ctx context.Context, container, el ElementHandle) (bool, error)
}
