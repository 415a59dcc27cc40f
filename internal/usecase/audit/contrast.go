package audit

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

var rgbPattern = regexp.MustCompile(`^\s*rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)\s*$`)

// ParseColor accepts only rgb(r,g,b) and rgba(r,g,b,a). Anything else,
// including a fully transparent rgba, is reported as not ok.
func ParseColor(s string) (entity.ColorSample, bool) {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return entity.ColorSample{}, false
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return entity.ColorSample{}, false
		}
		channels[i] = uint8(v)
	}

	if m[4] != "" {
		alpha, err := strconv.ParseFloat(m[4], 64)
		if err != nil || alpha == 0 {
			return entity.ColorSample{}, false
		}
	}

	return entity.ColorSample{R: channels[0], G: channels[1], B: channels[2]}, true
}

// RelativeLuminance implements the WCAG 2.x relative luminance formula.
func RelativeLuminance(c entity.ColorSample) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(channel uint8) float64 {
	c := float64(channel) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ContrastRatio is symmetric in its arguments.
func ContrastRatio(a, b entity.ColorSample) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	lmax, lmin := math.Max(la, lb), math.Min(la, lb)
	return (lmax + 0.05) / (lmin + 0.05)
}

type ContrastAnalyzer struct {
	logger    output.LoggerPort
	threshold float64
}

func NewContrastAnalyzer(logger output.LoggerPort) *ContrastAnalyzer {
	return &ContrastAnalyzer{
		logger:    logger,
		threshold: entity.ContrastThreshold,
	}
}

// Analyze visits every element in document order and returns the pairs whose
// ratio falls below the threshold.
func (a *ContrastAnalyzer) Analyze(ctx context.Context, page output.PagePort) ([]entity.ContrastFinding, error) {
	elements, err := page.QueryAll(ctx, "*")
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}

	findings := make([]entity.ContrastFinding, 0)
	skipped := 0

	for _, el := range elements {
		style, err := page.ComputedStyle(ctx, el)
		if err != nil {
			return nil, fmt.Errorf("computed style: %w", err)
		}

		fg, okFg := ParseColor(style.Color)
		bg, okBg := ParseColor(style.BackgroundColor)
		if !okFg || !okBg {
			skipped++
			continue
		}

		ratio := ContrastRatio(fg, bg)
		if ratio >= a.threshold {
			continue
		}

		ref, err := page.Describe(ctx, el)
		if err != nil {
			return nil, fmt.Errorf("describe element: %w", err)
		}

		findings = append(findings, entity.ContrastFinding{
			Element:    ref,
			Foreground: fg,
			Background: bg,
			Ratio:      ratio,
			Threshold:  a.threshold,
		})
	}

	a.logger.Debug("Contrast analysis completed",
		"elements", len(elements),
		"skipped", skipped,
		"findings", len(findings),
	)

	return findings, nil
}
