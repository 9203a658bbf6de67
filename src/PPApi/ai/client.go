package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client talks to an OpenAI-compatible completion endpoint (a Gaia node
// in production).
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}
}

// Complete runs one chat completion with the given system and user
// prompts and returns the assistant text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: llm: %v", errs.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: llm returned no choices", errs.ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}
