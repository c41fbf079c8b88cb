package llm

import (
	"context"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	log "github.com/sirupsen/logrus"
)

// OpenAIConfig configures the chat-completions client.
type OpenAIConfig struct {
	Model       string
	Temperature float64
	APIKey      string
	// BaseURL points at any OpenAI-compatible endpoint; empty uses the SDK default
	BaseURL string
	// Timeout bounds one request; zero leaves the transport default
	Timeout time.Duration
}

// OpenAIClient implements Client on the chat-completions API.
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIClient builds a client that never retries: every logical step
// is attempted once.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	options := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey == "" {
		log.Warn("OPENAI_API_KEY environment variable is not set, will try unauthenticated access")
	} else {
		options = append(options, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		options = append(options, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIClient{
		client:      openai.NewClient(options...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Complete sends the system and user messages and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.User) == "" {
		return "", ErrEmptyPrompt
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       shared.ChatModel(c.model),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &RequestError{Model: c.model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &RequestError{Model: c.model, Err: ErrNoChoices}
	}

	content := resp.Choices[0].Message.Content
	log.WithFields(log.Fields{
		"model":    c.model,
		"duration": time.Since(start).Round(time.Millisecond),
		"tokens":   resp.Usage.TotalTokens,
	}).Debug("Generation call completed")

	if strings.TrimSpace(content) == "" {
		return "", &RequestError{Model: c.model, Err: ErrEmptyResponse}
	}
	return content, nil
}
