// Package openai implements the rule oracle over an OpenAI-compatible
// chat-completions API. The model is asked to evaluate the whole rule
// batch in one call and answer with a JSON array of verdicts.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/peopleops/intake/internal/logging"
	"github.com/peopleops/intake/pkg/domain"
	openai "github.com/sashabaranov/go-openai"
)

// jsonArrayPattern extracts the first JSON array from a completion,
// tolerating markdown fences and prose around it.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Oracle is a ports.RuleOracle backed by a chat model. The client is
// constructed explicitly and injected; there are no package-level model
// singletons.
type Oracle struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	logger     *slog.Logger
}

// Config configures the oracle client.
type Config struct {
	APIKey     string
	BaseURL    string        // optional, for OpenAI-compatible gateways
	Model      string        // defaults to gpt-4o-mini
	Timeout    time.Duration // per-call budget, defaults to 30s
	MaxRetries int           // transport retries, defaults to 3
}

// Option configures the Oracle.
type Option func(*Oracle)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an oracle from config.
func New(cfg Config, opts ...Option) (*Oracle, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("oracle API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	o := &Oracle{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// EvaluateRules implements ports.RuleOracle. Transport failures are
// retried up to maxRetries; a completion that cannot be parsed into
// verdicts is returned as an error without retrying, since the caller
// owns the retry-the-whole-batch decision.
func (o *Oracle) EvaluateRules(ctx context.Context, responseContext map[string]string, rules []domain.RuleQuery) ([]domain.RuleVerdict, error) {
	if len(rules) == 0 {
		return []domain.RuleVerdict{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt, err := buildPrompt(responseContext, rules)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
	}

	var resp openai.ChatCompletionResponse
	var lastErr error
	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		resp, lastErr = o.client.CreateChatCompletion(ctx, req)
		if lastErr == nil {
			break
		}
		o.logger.Warn("oracle completion attempt failed",
			"attempt", attempt, "max_retries", o.maxRetries, "err", lastErr)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("rule oracle call failed: %w", lastErr)
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.OracleProtocolError{Reason: "model returned no choices"}
	}

	return parseVerdicts(resp.Choices[0].Message.Content)
}

// parseVerdicts extracts the JSON verdict array from the raw completion.
func parseVerdicts(content string) ([]domain.RuleVerdict, error) {
	match := jsonArrayPattern.FindString(content)
	if match == "" {
		return nil, &domain.OracleProtocolError{Reason: "model did not return a JSON array"}
	}

	var verdicts []domain.RuleVerdict
	if err := json.Unmarshal([]byte(match), &verdicts); err != nil {
		return nil, &domain.OracleProtocolError{Reason: fmt.Sprintf("malformed verdict array: %v", err)}
	}

	return verdicts, nil
}

const systemPrompt = `You are evaluating boolean conditions based on user responses. ` +
	`A rule referencing a response key that is not present must evaluate to false, never to an error. ` +
	`Return ONLY a valid JSON array, no explanation.`

// buildPrompt renders the batched evaluation request: the flattened
// response context plus every rule with its optional context string.
func buildPrompt(responseContext map[string]string, rules []domain.RuleQuery) (string, error) {
	ctxJSON, err := json.MarshalIndent(responseContext, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode response context: %w", err)
	}

	var b strings.Builder
	b.WriteString("## User Responses\n\n")
	b.Write(ctxJSON)
	b.WriteString("\n\n## Rules to Evaluate\n")
	b.WriteString("For each rule below, evaluate whether it is TRUE or FALSE based on the user responses.\n")
	b.WriteString(`Return a JSON array of {"stepId": string, "isRulePassed": boolean}, one entry per rule.`)
	b.WriteString("\n\n")

	for _, rule := range rules {
		fmt.Fprintf(&b, "- stepId: %q\n  rule: %q\n", rule.StepID, rule.Rule)
		if rule.RuleContext != "" {
			fmt.Fprintf(&b, "  context: %q\n", rule.RuleContext)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
