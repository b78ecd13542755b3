package evolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"newsline/internal/resilience/circuitbreaker"
	"newsline/internal/resilience/retry"
)

// headlineMaxTokens is the §4.5 completion budget: a single headline
// needs far fewer tokens than the teacher's multi-sentence summaries.
const headlineMaxTokens = 100

// ClaudeHeadlineSynthesizer implements HeadlineSynthesizer using
// Anthropic's Claude API, wrapped in the same circuit breaker and retry
// policy the teacher applies to its summarization calls.
type ClaudeHeadlineSynthesizer struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
}

func NewClaudeHeadlineSynthesizer(apiKey string) *ClaudeHeadlineSynthesizer {
	return &ClaudeHeadlineSynthesizer{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		model:          string(anthropic.ModelClaudeSonnet4_5_20250929),
	}
}

func (c *ClaudeHeadlineSynthesizer) Synthesize(ctx context.Context, currentTitle string, sourceTitles []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var result string
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSynthesize(ctx, currentTitle, sourceTitles)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, headline synthesis rejected",
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("claude headline synthesis failed after retries: %w", retryErr)
	}
	return result, nil
}

func (c *ClaudeHeadlineSynthesizer) doSynthesize(ctx context.Context, currentTitle string, sourceTitles []string) (string, error) {
	prompt := buildHeadlinePrompt(currentTitle, sourceTitles)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: headlineMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}
	return strings.TrimSpace(textBlock.Text), nil
}

func buildHeadlinePrompt(currentTitle string, sourceTitles []string) string {
	var b strings.Builder
	b.WriteString("Write one news headline of 8-15 words that synthesizes the latest, ")
	b.WriteString("most-specific, multi-source-consensus framing of this story. ")
	b.WriteString("Respond with only the headline, no quotes or preamble.\n\n")
	fmt.Fprintf(&b, "Current headline: %s\n\nSource headlines:\n", currentTitle)
	for _, title := range sourceTitles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	return b.String()
}
