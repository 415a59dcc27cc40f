package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"a11y-bot/internal/domain/entity"
)

// maxPromptFindings caps each list so a noisy page cannot blow the context.
const maxPromptFindings = 40

type ViolationInfo struct {
	ID      string
	Impact  string
	Help    string
	Targets []string
}

type ContrastInfo struct {
	Selector   string
	Foreground string
	Background string
	Ratio      float64
}

type FindingInfo struct {
	Selector string
	Message  string
}

type AdvisorPromptData struct {
	TargetURL  string
	Violations []ViolationInfo
	Contrast   []ContrastInfo
	Heuristic  []FindingInfo
	FocusTrap  []string
}

func NewAdvisorPromptData(targetURL string, report *entity.AuditReport) AdvisorPromptData {
	data := AdvisorPromptData{TargetURL: targetURL}
	if report == nil {
		return data
	}

	for _, v := range capped(report.ConformanceViolations()) {
		info := ViolationInfo{ID: v.ID, Impact: v.Impact, Help: v.Help}
		for _, n := range v.Nodes {
			info.Targets = append(info.Targets, n.Target...)
		}
		data.Violations = append(data.Violations, info)
	}
	for _, f := range capped(report.ContrastFindings()) {
		data.Contrast = append(data.Contrast, ContrastInfo{
			Selector:   f.Element.Selector,
			Foreground: f.Foreground.String(),
			Background: f.Background.String(),
			Ratio:      f.Ratio,
		})
	}
	for _, f := range capped(report.HeuristicFindings()) {
		data.Heuristic = append(data.Heuristic, FindingInfo{Selector: f.Element.Selector, Message: f.Message})
	}
	data.FocusTrap = report.FocusTrap().Issues
	return data
}

func capped[T any](items []T) []T {
	if len(items) > maxPromptFindings {
		return items[:maxPromptFindings]
	}
	return items
}

func GenerateAdvisorPrompt(baseTemplate string, data AdvisorPromptData) (string, error) {
	tmpl, err := template.New("advisor").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(baseTemplate)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}

	return buf.String(), nil
}
