package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	openaix "github.com/tanpawarit/appointment-assistant/pkg/openai"
)

const (
	DriverEino = "eino"
	DriverSDK  = "sdk"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-3.5-turbo"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"500"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"-1"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
	Driver             string        `envconfig:"DRIVER" split_words:"true" default:"eino"`
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", DriverEino, DriverSDK:
	default:
		return fmt.Errorf("%w: unknown model driver %q", contractx.ErrValidation, c.Driver)
	}
	if c.MaxCompletionToken <= 0 {
		return fmt.Errorf("%w: max completion token must be positive", contractx.ErrValidation)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", contractx.ErrValidation)
	}
	return nil
}

// Enabled reports whether a credential is configured. Without one the chat endpoint is off.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c Config) DefaultModel() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	return contractx.DefaultModel
}

func (c Config) ClientConfig() openaix.Config {
	maxCompletionToken := c.MaxCompletionToken
	cfg := openaix.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              c.DefaultModel(),
		MaxCompletionToken: &maxCompletionToken,
		Timeout:            c.Timeout,
	}
	// negative means "let the provider decide"
	if c.Temperature >= 0 {
		temp := c.Temperature
		cfg.Temperature = &temp
	}
	return cfg
}

// NewChatModel builds the chat model for the configured driver.
func (c Config) NewChatModel(ctx context.Context) (einomodel.ToolCallingChatModel, error) {
	if !c.Enabled() {
		return nil, contractx.ErrModelUnavailable
	}

	clientCfg := c.ClientConfig()
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case DriverSDK:
		m, err := NewSDKChatModel(clientCfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		m, err := clientCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("create eino chat model: %w", err)
		}
		return m, nil
	}
}
