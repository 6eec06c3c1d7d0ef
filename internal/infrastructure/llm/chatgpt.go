package llm

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"ReviewReporter/internal/config"
	"ReviewReporter/internal/ports"
)

const defaultSystemPrompt = "You rate the sentiment of app store reviews. " +
	"Reply with a single number between -1 (very negative) and 1 (very positive), nothing else."

var numberExpr = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ChatGPTClient implements ports.SentimentScorer backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	client       openai.Client
	model        string
	systemPrompt string
}

var _ ports.SentimentScorer = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig) *ChatGPTClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: 20 * time.Second}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	return &ChatGPTClient{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
	}
}

// Score asks the model for a polarity and parses the first number in its reply.
func (c *ChatGPTClient) Score(ctx context.Context, text string) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("chatgpt client is nil")
	}
	if c.model == "" {
		return 0, fmt.Errorf("chatgpt client misconfigured")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(safePrompt(c.systemPrompt)),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return 0, fmt.Errorf("score review: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("no choices in response from model")
	}

	return parsePolarity(resp.Choices[0].Message.Content)
}

func parsePolarity(reply string) (float64, error) {
	match := numberExpr.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("model reply has no polarity: %q", strings.TrimSpace(reply))
	}
	polarity, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("parse polarity %q: %w", match, err)
	}
	return max(-1, min(1, polarity)), nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
