package utils

import (
	"context"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/John17712/theralink-app/internal/models/db_models"
)

// CompletionClientInterface is the single surface for every model call:
// therapeutic replies, session auto-naming and audio transcription.
type CompletionClientInterface interface {
	Complete(ctx context.Context, messages []db_models.Message, temperature float32, maxTokens int) (string, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type CompletionConfig struct {
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint, e.g. Groq's /openai/v1
	Model   string
}

type completionClient struct {
	client *openai.Client
	model  string
}

func NewCompletionClient(cfg CompletionConfig) CompletionClientInterface {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return &completionClient{
		client: openai.NewClientWithConfig(c),
		model:  cfg.Model,
	}
}

func (c *completionClient) Complete(ctx context.Context, messages []db_models.Message, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrCompletionFailed
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *completionClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
