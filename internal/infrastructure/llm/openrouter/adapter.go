package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
	"a11y-bot/internal/infrastructure/prompts"

	"github.com/sashabaranov/go-openai"
)

var _ output.Advisor = (*Advisor)(nil)

var ErrEmptyResponse = errors.New("no choices in response")

const maxSuggestions = 10

// Advisor asks an OpenRouter model for remediation suggestions based on a
// finished audit report.
type Advisor struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      output.LoggerPort
}

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Logger      output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     "https://openrouter.ai/api/v1",
		Temperature: 0.2,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug("HTTP Request", "method", req.Method, "url", req.URL.String())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP Request failed", "url", req.URL.String(), "error", err)
		return nil, err
	}

	t.logger.Debug("HTTP Response", "status", resp.Status, "statusCode", resp.StatusCode)
	return resp, nil
}

func NewAdvisor(cfg Config) *Advisor {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	if cfg.Logger != nil {
		config.HTTPClient = &http.Client{
			Transport: &loggingTransport{
				base:   http.DefaultTransport,
				logger: cfg.Logger,
			},
		}
	}

	return &Advisor{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

func (a *Advisor) Suggest(ctx context.Context, targetURL string, report *entity.AuditReport) ([]string, error) {
	prompt, err := prompts.GenerateAdvisorPrompt(prompts.AdvisorReportPrompt, prompts.NewAdvisorPromptData(targetURL, report))
	if err != nil {
		return nil, err
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.AdvisorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	suggestions := parseSuggestions(resp.Choices[0].Message.Content)
	if a.logger != nil {
		a.logger.Info("Suggestions received",
			"model", a.model,
			"count", len(suggestions),
			"totalTokens", resp.Usage.TotalTokens)
	}
	return suggestions, nil
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// parseSuggestions keeps list items only. Models sometimes add a preamble or
// wrap the list in a code fence despite the instructions.
func parseSuggestions(content string) []string {
	result := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		loc := listMarker.FindStringIndex(line)
		if loc == nil {
			continue
		}
		item := strings.TrimSpace(line[loc[1]:])
		if item == "" {
			continue
		}
		result = append(result, item)
		if len(result) == maxSuggestions {
			break
		}
	}
	return result
}
