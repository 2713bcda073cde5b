package generator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/RawsTourix/bot-farm/internal/gateway"
)

const defaultSystemPrompt = "You are a personal assistant reached through a multi-protocol gateway. Answer concisely in plain text."

// OpenAI generates replies with the OpenAI Chat Completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed generator.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate sends the message content as a chat completion request.
func (g *OpenAI) Generate(ctx context.Context, msg *gateway.Message) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: defaultSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: msg.Content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
