// Package gemini implements the model interfaces on top of the Google GenAI
// client.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shry/gitcha-action/internal/logger"
	"github.com/shry/gitcha-action/internal/prompt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// maxLogLength caps prompt and response previews in debug logs.
const maxLogLength = 200

// Generation constants: summarization calls are kept short and deterministic,
// the letter chat gets more room and a bit of temperature.
const (
	summaryTemperature  float32 = 0.2
	summaryMaxTokens    int32   = 512
	chatTemperature     float32 = 0.6
	chatMaxOutputTokens int32   = 1000
)

// Client wraps the Google GenAI client behind the pipeline's Completer and
// Generator interfaces.
type Client struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{client: client, modelName: model, logger: log}, nil
}

// GenerateContent sends a single plain prompt, used by the summarization
// chains.
func (c *Client) GenerateContent(ctx context.Context, text string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(summaryTemperature),
		MaxOutputTokens: summaryMaxTokens,
	}

	c.logger.Debug("sending summarization prompt",
		zap.String("model", c.modelName),
		zap.String("prompt_preview", logger.TruncateForLog(text, maxLogLength)),
	)

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(text), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out := flatten(resp)
	c.logger.Debug("received summarization response",
		zap.String("response_preview", logger.TruncateForLog(out, maxLogLength)),
	)

	return out, nil
}

// Complete executes a rendered chat prompt. System messages become the system
// instruction; user messages are sent as the conversation contents.
func (c *Client) Complete(ctx context.Context, messages []prompt.Message) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	system, contents := splitMessages(messages)

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(chatTemperature),
		MaxOutputTokens: chatMaxOutputTokens,
	}

	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	c.logger.Debug("sending chat prompt",
		zap.String("model", c.modelName),
		zap.Int("messages", len(messages)),
	)

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out := flatten(resp)
	c.logger.Debug("received chat response",
		zap.String("response_preview", logger.TruncateForLog(out, maxLogLength)),
	)

	return out, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

// splitMessages separates system messages from the conversation contents.
func splitMessages(messages []prompt.Message) ([]string, []*genai.Content) {
	var system []string
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			system = append(system, m.Content)
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}

	return system, contents
}

func flatten(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
