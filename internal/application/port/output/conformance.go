package output

import (
	"context"

	"a11y-bot/internal/domain/entity"
)

// ConformanceChecker runs an external rule engine against an open page.
type ConformanceChecker interface {
	Check(ctx context.Context, page PageSession) (entity.ConformanceResult, error)
}
