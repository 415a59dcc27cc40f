package audit

import (
	"context"
	"fmt"
	"regexp"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

var placeholderAlt = regexp.MustCompile(`(?i)^(image|img|photo|picture)[0-9]*$`)

var acceptedRoles = map[string]struct{}{
	"button":     {},
	"navigation": {},
	"main":       {},
	"dialog":     {},
	"alert":      {},
	"checkbox":   {},
	"tab":        {},
	"tooltip":    {},
}

// IsPlaceholderAlt reports whether alt text says nothing about the image.
func IsPlaceholderAlt(alt string) bool {
	return alt == "" || placeholderAlt.MatchString(alt)
}

// IsAcceptedRole is an exact, case-sensitive vocabulary lookup.
func IsAcceptedRole(role string) bool {
	_, ok := acceptedRoles[role]
	return ok
}

type HeuristicScanner struct {
	logger output.LoggerPort
}

func NewHeuristicScanner(logger output.LoggerPort) *HeuristicScanner {
	return &HeuristicScanner{logger: logger}
}

// Scan runs the alt-text check followed by the role check.
func (s *HeuristicScanner) Scan(ctx context.Context, page output.PagePort) ([]entity.HeuristicFinding, error) {
	alt, err := s.ScanAltText(ctx, page)
	if err != nil {
		return nil, err
	}

	roles, err := s.ScanAriaRoles(ctx, page)
	if err != nil {
		return nil, err
	}

	return append(alt, roles...), nil
}

func (s *HeuristicScanner) ScanAltText(ctx context.Context, page output.PagePort) ([]entity.HeuristicFinding, error) {
	images, err := page.QueryAll(ctx, "img")
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}

	findings := make([]entity.HeuristicFinding, 0)
	for i, img := range images {
		alt, _, err := page.Attribute(ctx, img, "alt")
		if err != nil {
			return nil, fmt.Errorf("read alt of image #%d: %w", i+1, err)
		}
		if !IsPlaceholderAlt(alt) {
			continue
		}

		src, _, err := page.Attribute(ctx, img, "src")
		if err != nil {
			return nil, fmt.Errorf("read src of image #%d: %w", i+1, err)
		}

		ref, err := page.Describe(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("describe image #%d: %w", i+1, err)
		}

		findings = append(findings, entity.HeuristicFinding{
			Category: entity.HeuristicAltText,
			Element:  ref,
			Message: fmt.Sprintf("Image #%d: alt text '%s' is not descriptive. Describe what the image from '%s' shows.",
				i+1, alt, src),
		})
	}

	s.logger.Debug("Alt text scan completed", "images", len(images), "findings", len(findings))
	return findings, nil
}

func (s *HeuristicScanner) ScanAriaRoles(ctx context.Context, page output.PagePort) ([]entity.HeuristicFinding, error) {
	elements, err := page.QueryAll(ctx, "[role]")
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}

	findings := make([]entity.HeuristicFinding, 0)
	for _, el := range elements {
		role, _, err := page.Attribute(ctx, el, "role")
		if err != nil {
			return nil, fmt.Errorf("read role: %w", err)
		}
		if IsAcceptedRole(role) {
			continue
		}

		ref, err := page.Describe(ctx, el)
		if err != nil {
			return nil, fmt.Errorf("describe element: %w", err)
		}

		findings = append(findings, entity.HeuristicFinding{
			Category: entity.HeuristicAriaRole,
			Element:  ref,
			Message:  fmt.Sprintf("Non-standard ARIA role '%s' on <%s> element.", role, ref.Tag),
		})
	}

	s.logger.Debug("ARIA role scan completed", "elements", len(elements), "findings", len(findings))
	return findings, nil
}
