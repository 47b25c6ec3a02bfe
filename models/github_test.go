package models

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestGitHubModelGenerate(t *testing.T) {
	token := os.Getenv("WEATHERCALL_TEST_GITHUB_TOKEN")
	if token == "" {
		t.Skip("WEATHERCALL_TEST_GITHUB_TOKEN not set")
	}

	model, err := NewGitHubModel(GitHubGPT4oMini, token)
	require.NoError(t, err, "failed to create GitHub model")

	response, err := model.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "Reply with exactly: Hello from GitHub Models"),
	})
	require.NoError(t, err, "GenerateContent failed")

	require.NotEmpty(t, response.Choices, "expected non-empty choices")
	assert.NotEmpty(t, response.Choices[0].Content, "expected non-empty response content")
	require.NotNil(t, response.Info, "expected generation info")
	assert.Greater(t, response.Info.InputTokens, 0, "expected positive input tokens")
	assert.Greater(t, response.Info.OutputTokens, 0, "expected positive output tokens")
}

func TestGitHubModelMissingToken(t *testing.T) {
	_, err := NewGitHubModel(GitHubGPT4oMini, "")
	require.Error(t, err, "expected error for empty token")
	assert.Contains(t, err.Error(), "github token is required")
}

func TestGitHubModelDefaultName(t *testing.T) {
	model, err := NewGitHubModel("", "ghp_test")
	require.NoError(t, err)
	assert.Equal(t, GitHubGPT41Mini, model.Name())
}
