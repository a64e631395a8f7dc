package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// ErrMissingAPIKey is returned when no key is configured for the endpoint
var ErrMissingAPIKey = errors.New("model api key is not configured")

// ChatClient calls an OpenAI-compatible chat completions endpoint
type ChatClient struct {
	client *openai.Client
	model  string
}

// NewChatClient builds a client from the model configuration.
// Retries are disabled; a failed call fails the generation request.
func NewChatClient(cfg entities.ModelConfig, extra ...option.RequestOption) (*ChatClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.GetBaseURL()),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.GetTimeout()),
	}
	opts = append(opts, extra...)

	client := openai.NewClient(opts...)
	return &ChatClient{client: &client, model: cfg.GetModel()}, nil
}

// Invoke sends the system and user prompts and returns the trimmed reply text
func (c *ChatClient) Invoke(ctx context.Context, req ports.ModelRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	params.Temperature = openai.Float(req.Temperature)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &entities.RequestError{Model: c.model, Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &entities.RequestError{Model: c.model, Cause: fmt.Errorf("response contained no choices")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the configured model name
func (c *ChatClient) Name() string {
	return c.model
}

// Ensure ChatClient implements ports.ModelClient
var _ ports.ModelClient = (*ChatClient)(nil)
