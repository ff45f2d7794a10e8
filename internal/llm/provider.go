package llm

import (
	"context"
	"fmt"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a prompt and returns the model's completion
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one completion call
type Request struct {
	// Prompt is the full prompt text
	Prompt string

	// System overrides the default system message
	System string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the model's output
type Response struct {
	// Text is the completion text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}

const rankSystemMessage = "You are a ranking assistant. You respond with a single number and nothing else."

// BuildRankPrompt constructs the prompt asking for one quality score for a
// tweet, optionally relative to the tweet it replies to.
func BuildRankPrompt(tweetText, referenceText string) string {
	prompt := `Score the following social-media reply from 0 to 20.
Reward readability, substance and relevance; penalize near-empty or all-caps posts.
Respond with the score as a single number, no explanation.

`
	if referenceText != "" {
		prompt += fmt.Sprintf("The post being replied to:\n%s\n\n", referenceText)
	}
	prompt += fmt.Sprintf("The reply to score:\n%s\n", tweetText)

	return prompt
}

const summarySystemMessage = "You are a helpful assistant that summarizes suppression analysis reports. You describe ordering anomalies only; you never speculate about intent."

// BuildSummaryPrompt constructs the prompt for the optional report summary.
// digest is a pre-rendered plain-text breakdown of the report; the summary
// it produces is prose only and never feeds back into any score or status.
func BuildSummaryPrompt(handle, digest string) string {
	return fmt.Sprintf(`The report below analyzes how visibly @%s's posts and replies appeared,
compared to where chronology and engagement would place them.

CRITICAL RULES:
1. Describe only what the report states. Do not infer platform intent.
2. If most items are VISIBLE_*, say the account shows little sign of suppression.
3. Mention counts, not individual tweet texts.

Report:
%s

Provide a 3-4 sentence summary of the suppression picture.`, handle, digest)
}

// Summarize asks the provider for the optional report summary.
func Summarize(ctx context.Context, p Provider, handle, digest string) (string, error) {
	resp, err := p.Complete(ctx, Request{
		Prompt: BuildSummaryPrompt(handle, digest),
		System: summarySystemMessage,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
