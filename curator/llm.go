package curator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

// TextCompleter is the single call type this system needs from a language
// model: one prompt in, generated text out. Tests inject fakes through it.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelResponseError marks model output that failed to parse into the
// structure a prompt asked for. Raw keeps the offending text for logging.
type ModelResponseError struct {
	Raw string
	Err error
}

func (e *ModelResponseError) Error() string {
	return fmt.Sprintf("model response failed to parse: %s", e.Err)
}

func (e *ModelResponseError) Unwrap() error {
	return e.Err
}

// OpenAICompleter backs TextCompleter with the OpenAI chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAICompleter(apiKey string, model string) *OpenAICompleter {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAICompleter{
		client: &client,
		model:  openai.ChatModel(model),
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai API error")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanJSONResponse strips the markdown code fences models like to wrap JSON
// in, despite being told not to.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
