// Package genai provides the free-text chat delegate backed by the OpenAI
// API. The dialogue engine hands over any turn that is outside the
// hydration flow; this package replays the session's chat history and
// returns the assistant reply.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/marufai/HydraCoach/internal/models"
)

// DefaultSystemPrompt is the persona and formatting contract for the chat
// delegate.
const DefaultSystemPrompt = "You are HydraCoach AI, a professional health and hydration assistant. " +
	"Format all responses using Markdown.\n\n" +
	"Structure guidelines:\n" +
	"- Use headings (## Heading) to organize main topics\n" +
	"- Use '---' on a new line as a separator between major sections\n" +
	"- Use **bold** for key terms and *italic* for subtle emphasis\n" +
	"- Use bullet lists for tips and numbered lists for sequential steps\n\n" +
	"Tone:\n" +
	"- Be clear, concise, and helpful\n" +
	"- Keep responses well-organized and scannable"

// ClientInterface is the chat delegate contract consumed by the dialogue
// engine. Implementations must be safe for concurrent use.
type ClientInterface interface {
	Chat(ctx context.Context, history []models.ChatMessage, userMessage string) (string, error)
}

// Opts holds configuration options for the GenAI client.
type Opts struct {
	APIKey       string
	Model        string
	SystemPrompt string
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) {
		o.APIKey = key
	}
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(o *Opts) {
		o.Model = model
	}
}

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Opts) {
		o.SystemPrompt = prompt
	}
}

// Client wraps the OpenAI chat completion service.
type Client struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewClient initializes a GenAI client. The API key falls back to the
// OPENAI_API_KEY environment variable when not provided via options.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	slog.Debug("genai.NewClient: client configured", "model", cfg.Model)
	return &Client{
		client:       openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Chat replays the conversation history behind the system prompt, appends
// the new user message, and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, history []models.ChatMessage, userMessage string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(c.systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		slog.Error("Client.Chat: completion request failed", "error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	slog.Debug("Client.Chat: completion received", "history_len", len(history))
	return resp.Choices[0].Message.Content, nil
}
