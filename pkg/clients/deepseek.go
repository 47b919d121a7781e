// Package clients constructs the language-model backends used by the
// research agents.
package clients

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// DeepSeek creates a DeepSeek-backed model through the OpenAI-compatible
// endpoint. DeepSeek has no native structured tool-call channel; callers
// must pair this model with the pseudo tool-call adapter.
func DeepSeek(apiKey, baseURL, modelID string) (*openai.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY is not set")
	}
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	if modelID == "" {
		modelID = "deepseek-chat"
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(modelID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}
	return llm, nil
}
