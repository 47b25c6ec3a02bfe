package models

import (
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultOpenAIModel is the model used when none is configured.
const DefaultOpenAIModel = "gpt-4.1-mini-2025-04-14"

// NewOpenAIModel creates a Model backed by the OpenAI chat completions API, or any
// OpenAI-compatible endpoint when baseURL is set.
//
// Additional openai.Option values are applied last and can override the defaults
// (e.g. openai.WithHTTPClient).
func NewOpenAIModel(
	model string,
	token string,
	baseURL string,
	opts ...openai.Option,
) (*LCGWrapper, error) {
	if token == "" {
		return nil, errors.New("openai api key is required: set OPENAI_API_KEY")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	baseOpts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		baseOpts = append(baseOpts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return NewLCGWrapper(llm).WithModelName(model), nil
}
