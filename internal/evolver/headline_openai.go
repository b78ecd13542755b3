package evolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"newsline/internal/resilience/circuitbreaker"
	"newsline/internal/resilience/retry"
)

// OpenAIHeadlineSynthesizer implements HeadlineSynthesizer using the
// OpenAI chat completions API — the alternate collaborator selected via
// SUMMARIZER_TYPE, as the teacher does for its text summarizer.
type OpenAIHeadlineSynthesizer struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
}

func NewOpenAIHeadlineSynthesizer(apiKey string) *OpenAIHeadlineSynthesizer {
	return &OpenAIHeadlineSynthesizer{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		model:          openai.GPT4oMini,
	}
}

func (o *OpenAIHeadlineSynthesizer) Synthesize(ctx context.Context, currentTitle string, sourceTitles []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var result string
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSynthesize(ctx, currentTitle, sourceTitles)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, headline synthesis rejected",
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai headline synthesis failed after retries: %w", retryErr)
	}
	return result, nil
}

func (o *OpenAIHeadlineSynthesizer) doSynthesize(ctx context.Context, currentTitle string, sourceTitles []string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: headlineMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildHeadlinePrompt(currentTitle, sourceTitles)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
