package weathercall

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Model is the language capability the orchestrator talks to. It wraps LangChainGo's
// llms.Model but returns normalized token usage so hooks and metrics can work across
// providers.
type Model interface {
	// GenerateContent generates the next assistant turn for the given message history.
	// Tools available to the model are passed through options (llms.WithTools).
	GenerateContent(
		ctx context.Context,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (
		*ContentResponse,
		error,
	)
}

// ContentResponse is the response from a GenerateContent call.
type ContentResponse struct {
	// Choices contains the generated content choices.
	Choices []*ContentChoice

	// Info contains generation metadata including normalized token counts.
	Info *GenerationInfo
}

// ContentChoice is a single content choice from the model.
type ContentChoice struct {
	// Content is the textual content of the response.
	Content string

	// StopReason is the reason the model stopped generating.
	StopReason string

	// ToolCalls is a list of tool calls the model asks to invoke.
	ToolCalls []llms.ToolCall
}

// HasToolCalls reports whether the choice requests at least one tool call.
func (c *ContentChoice) HasToolCalls() bool {
	return c != nil && len(c.ToolCalls) > 0
}

// GenerationInfo contains metadata about the generation including normalized token counts.
type GenerationInfo struct {
	// InputTokens is the number of input/prompt tokens used.
	// This is normalized across providers:
	//   - OpenAI: PromptTokens
	//   - Anthropic: InputTokens
	//   - Google / Bedrock: input_tokens
	InputTokens int

	// OutputTokens is the number of output/completion tokens generated.
	// This is normalized across providers:
	//   - OpenAI: CompletionTokens
	//   - Anthropic: OutputTokens
	//   - Google / Bedrock: output_tokens
	OutputTokens int

	// TotalTokens is the total token count (InputTokens + OutputTokens).
	// Some providers return this directly; otherwise it's computed.
	TotalTokens int

	// Duration is how long the generation took.
	Duration time.Duration
}
