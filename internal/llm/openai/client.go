package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"quickai-backend/internal/llm"
	"quickai-backend/internal/shared/telemetry"
)

// Client implements llm.Client using the official openai-go SDK.
// A custom base URL makes it work against any OpenAI-compatible
// endpoint, including Gemini's compatibility layer.
type Client struct {
	model string
	opts  []option.RequestOption
}

// NewClient constructs a chat-completions client.
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{model: model, opts: opts}, nil
}

// Complete runs a single-turn chat completion and returns its content.
func (c *Client) Complete(ctx context.Context, input llm.CompleteInput) (string, error) {
	client := openai.NewClient(c.opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(input.Prompt),
		},
	}
	if input.Temperature > 0 {
		params.Temperature = openai.Float(input.Temperature)
	}
	if input.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(input.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai: empty content")
	}

	telemetry.Info("llm.complete", map[string]any{
		"model":             c.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	})
	return content, nil
}

var _ llm.Client = (*Client)(nil)
