package service

import (
	"fmt"
	"sort"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

type RendererRegistry struct {
	renderers map[entity.ReportFormat]output.ReportRenderer
}

func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{
		renderers: make(map[entity.ReportFormat]output.ReportRenderer),
	}
}

func (r *RendererRegistry) Register(renderer output.ReportRenderer) {
	r.renderers[renderer.Format()] = renderer
}

func (r *RendererRegistry) Get(format entity.ReportFormat) (output.ReportRenderer, bool) {
	renderer, ok := r.renderers[format]
	return renderer, ok
}

// MustGet is Get with an error naming the formats that are available.
func (r *RendererRegistry) MustGet(format entity.ReportFormat) (output.ReportRenderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnsupportedFormat, format, r.Formats())
	}
	return renderer, nil
}

func (r *RendererRegistry) Formats() []entity.ReportFormat {
	result := make([]entity.ReportFormat, 0, len(r.renderers))
	for format := range r.renderers {
		result = append(result, format)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}
