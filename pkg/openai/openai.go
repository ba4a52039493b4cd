package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultBaseURL = "https://api.openai.com/v1"

var ErrMissingAPIKey = errors.New("openai api key is not configured")

type LLMBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ LLMBuilder = (*Config)(nil)

// Config describes one OpenAI-compatible chat completions endpoint.
type Config struct {
	BaseURL            string
	APIKey             string
	Model              string
	MaxCompletionToken *int
	Temperature        *float32
	Timeout            time.Duration
	HTTPClient         *http.Client
}

// New builds an eino chat model for the endpoint.
func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	conf := &openaimodel.ChatModelConfig{
		BaseURL:     baseURL(c.BaseURL),
		APIKey:      apiKey,
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   c.MaxCompletionToken,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
		HTTPClient:  c.HTTPClient,
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openai: create chat model: %w", err)
	}

	return m, nil
}

// NewClient creates an OpenAI SDK client for the endpoint. It returns nil without an API key.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithBaseURL(baseURL(cfg.BaseURL) + "/"),
		// retries are disabled: a failed call surfaces to the caller as-is
		option.WithMaxRetries(0),
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}

func baseURL(raw string) string {
	if trimmed := strings.TrimRight(strings.TrimSpace(raw), "/"); trimmed != "" {
		return trimmed
	}
	return DefaultBaseURL
}
