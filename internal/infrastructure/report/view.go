package report

import (
	"encoding/base64"
	"html"
	"html/template"
	"time"

	"a11y-bot/internal/domain/entity"

	"github.com/microcosm-cc/bluemonday"
)

// Rule texts and advisor suggestions come from outside the audit engine and
// are reduced to plain text. Finding messages quote tag names and are left
// to the template's escaping.
var plainPolicy = bluemonday.StrictPolicy()

func plainText(s string) string {
	return html.UnescapeString(plainPolicy.Sanitize(s))
}

type violationView struct {
	Number      int
	ID          string
	Impact      string
	Help        string
	Description string
	HelpURL     string
	Targets     []string
	Snippets    []string
}

type contrastView struct {
	Tag        string
	Selector   string
	Foreground string
	Background string
	Ratio      string
	Threshold  string
}

type heuristicView struct {
	Selector string
	Message  string
}

type documentView struct {
	ID              string
	TargetURL       string
	GeneratedAt     string
	ConformanceSkip bool
	Violations      []violationView
	Contrast        []contrastView
	AltText         []heuristicView
	AriaRoles       []heuristicView
	FocusTrap       []string
	FocusTrapPassed bool
	Suggestions     []string
	Screenshot      template.URL
}

func newDocumentView(doc *entity.ReportDocument) documentView {
	report := doc.Report
	if report == nil {
		report = entity.NewAuditReport(nil, nil, nil, entity.FocusTrapResult{})
	}

	v := documentView{
		ID:              doc.ID,
		TargetURL:       doc.TargetURL,
		GeneratedAt:     doc.GeneratedAt.UTC().Format(time.RFC3339),
		ConformanceSkip: doc.ConformanceSkip,
		Violations:      make([]violationView, 0),
		Contrast:        make([]contrastView, 0),
		AltText:         make([]heuristicView, 0),
		AriaRoles:       make([]heuristicView, 0),
		FocusTrapPassed: report.FocusTrap().Passed(),
	}

	for i, violation := range report.ConformanceViolations() {
		vv := violationView{
			Number:      i + 1,
			ID:          violation.ID,
			Impact:      violation.Impact,
			Help:        plainText(violation.Help),
			Description: plainText(violation.Description),
			HelpURL:     violation.HelpURL,
		}
		for _, node := range violation.Nodes {
			vv.Targets = append(vv.Targets, node.Target...)
			if node.HTML != "" {
				vv.Snippets = append(vv.Snippets, CleanSnippet(node.HTML, nil))
			}
		}
		v.Violations = append(v.Violations, vv)
	}

	for _, f := range report.ContrastFindings() {
		v.Contrast = append(v.Contrast, contrastView{
			Tag:        f.Element.Tag,
			Selector:   f.Element.Selector,
			Foreground: f.Foreground.String(),
			Background: f.Background.String(),
			Ratio:      formatRatio(f.Ratio),
			Threshold:  formatRatio(f.Threshold),
		})
	}

	for _, f := range report.HeuristicFindings() {
		hv := heuristicView{Selector: f.Element.Selector, Message: f.Message}
		switch f.Category {
		case entity.HeuristicAltText:
			v.AltText = append(v.AltText, hv)
		case entity.HeuristicAriaRole:
			v.AriaRoles = append(v.AriaRoles, hv)
		}
	}

	v.FocusTrap = append(v.FocusTrap, report.FocusTrap().Issues...)
	for _, s := range doc.Suggestions {
		v.Suggestions = append(v.Suggestions, plainText(s))
	}

	if doc.Screenshot != nil && len(doc.Screenshot.Data) > 0 {
		v.Screenshot = template.URL("data:image/" + doc.Screenshot.Format + ";base64," +
			base64.StdEncoding.EncodeToString(doc.Screenshot.Data))
	}

	return v
}
