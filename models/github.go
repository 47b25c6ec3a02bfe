package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

// GitHubModelsBaseURL is the OpenAI-compatible GitHub Models inference endpoint.
const GitHubModelsBaseURL = "https://models.github.ai/inference"

// GitHub Models IDs ("publisher/model") that support function calling.
const (
	GitHubGPT41     = "openai/gpt-4.1"
	GitHubGPT41Mini = "openai/gpt-4.1-mini"
	GitHubGPT41Nano = "openai/gpt-4.1-nano"
	GitHubGPT4o     = "openai/gpt-4o"
	GitHubGPT4oMini = "openai/gpt-4o-mini"
	GitHubLlama4    = "meta/llama-4-scout-17b-16e-instruct"
	GitHubMistral   = "mistral-ai/mistral-small-2503"
)

// githubHeaderTransport implements openai.Doer and pins the GitHub API version.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHubModel creates a Model backed by the GitHub Models API. The token must be a
// fine-grained personal access token with the models:read permission.
//
//	model, err := models.NewGitHubModel(models.GitHubGPT41Mini, os.Getenv("GITHUB_TOKEN"))
func NewGitHubModel(
	model string,
	token string,
	opts ...openai.Option,
) (*LCGWrapper, error) {
	if token == "" {
		return nil, errors.New("github token is required: " +
			"create a fine-grained PAT with models:read")
	}
	if model == "" {
		model = GitHubGPT41Mini
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(GitHubModelsBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&githubHeaderTransport{base: http.DefaultTransport}),
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}

	return NewLCGWrapper(llm).WithModelName(model), nil
}
