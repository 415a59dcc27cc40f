// Package axe runs axe-core inside an open page and converts its violations
// into conformance results.
package axe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
)

var _ output.ConformanceChecker = (*Runner)(nil)

var ErrNoScript = errors.New("axe: no script source configured")

const (
	EngineName       = "axe-core"
	defaultScriptURL = "https://cdn.jsdelivr.net/npm/axe-core@4.10.2/axe.min.js"
)

type Config struct {
	// ScriptPath takes precedence over ScriptURL when set.
	ScriptPath string
	ScriptURL  string
	// Tags limits the run to rules carrying these tags, e.g. wcag2a, wcag2aa.
	Tags []string
}

func DefaultConfig() Config {
	return Config{ScriptURL: defaultScriptURL}
}

type Runner struct {
	scriptURL string
	script    string
	tags      []string
	logger    output.LoggerPort
}

func NewRunner(cfg Config, logger output.LoggerPort) (*Runner, error) {
	r := &Runner{scriptURL: cfg.ScriptURL, tags: cfg.Tags, logger: logger}

	if cfg.ScriptPath != "" {
		data, err := os.ReadFile(cfg.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("axe: read script: %w", err)
		}
		r.script = string(data)
		r.scriptURL = ""
	}
	if r.script == "" && r.scriptURL == "" {
		return nil, ErrNoScript
	}
	return r, nil
}

func (r *Runner) Check(ctx context.Context, page output.PageSession) (entity.ConformanceResult, error) {
	if err := page.AddScript(ctx, r.scriptURL, r.script); err != nil {
		return entity.ConformanceResult{}, fmt.Errorf("axe: inject: %w", err)
	}

	js, err := runScript(r.tags)
	if err != nil {
		return entity.ConformanceResult{}, err
	}

	raw, err := page.EvalString(ctx, js)
	if err != nil {
		return entity.ConformanceResult{}, fmt.Errorf("axe: run: %w", err)
	}

	violations, err := ParseViolations(raw)
	if err != nil {
		return entity.ConformanceResult{}, err
	}

	r.logger.Info("Conformance check completed", "engine", EngineName, "violations", len(violations))
	return entity.ConformanceResult{Engine: EngineName, Violations: violations}, nil
}

func runScript(tags []string) (string, error) {
	options := map[string]any{"resultTypes": []string{"violations"}}
	if len(tags) > 0 {
		options["runOnly"] = map[string]any{"type": "tag", "values": tags}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("axe: encode options: %w", err)
	}
	return fmt.Sprintf(`async () => JSON.stringify((await axe.run(document, %s)).violations)`, data), nil
}

type rawViolation struct {
	ID          string    `json:"id"`
	Impact      *string   `json:"impact"`
	Help        string    `json:"help"`
	Description string    `json:"description"`
	HelpURL     string    `json:"helpUrl"`
	Nodes       []rawNode `json:"nodes"`
}

type rawNode struct {
	Target []json.RawMessage `json:"target"`
	HTML   string            `json:"html"`
}

// ParseViolations decodes the JSON array axe.run() reports as violations.
func ParseViolations(raw string) ([]entity.ConformanceViolation, error) {
	var decoded []rawViolation
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("axe: decode violations: %w", err)
	}

	result := make([]entity.ConformanceViolation, 0, len(decoded))
	for _, v := range decoded {
		violation := entity.ConformanceViolation{
			ID:          v.ID,
			Help:        v.Help,
			Description: v.Description,
			HelpURL:     v.HelpURL,
			Nodes:       make([]entity.ConformanceNode, 0, len(v.Nodes)),
		}
		if v.Impact != nil {
			violation.Impact = *v.Impact
		}
		for _, n := range v.Nodes {
			violation.Nodes = append(violation.Nodes, entity.ConformanceNode{
				Target: targets(n.Target),
				HTML:   n.HTML,
			})
		}
		result = append(result, violation)
	}
	return result, nil
}

// targets flattens axe selectors. Shadow DOM targets arrive as nested
// arrays and are joined with " >>> ".
func targets(raw []json.RawMessage) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			out = append(out, s)
			continue
		}
		var nested []string
		if err := json.Unmarshal(t, &nested); err == nil {
			out = append(out, strings.Join(nested, " >>> "))
			continue
		}
		out = append(out, string(t))
	}
	return out
}
