// Package claude implements the Generator interface on the Anthropic API.
package claude

import (
	"context"
	"fmt"
	"iter"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// Config holds Claude provider configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns default Claude configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Provider implements provider.Generator for Claude
type Provider struct {
	cfg    *Config
	client anthropic.Client
}

// New creates a new Claude provider using official SDK
func New(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig("")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-sonnet-20241022"
	}

	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		cfg:    cfg,
		client: anthropic.NewClient(options...),
	}
}

func (p *Provider) Name() string { return "claude" }

func (p *Provider) Available() bool {
	return p != nil && p.cfg.APIKey != ""
}

func (p *Provider) params(prompt string) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model: anthropic.Model(p.cfg.Model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		MaxTokens: p.cfg.MaxTokens,
	}
	if p.cfg.Temperature > 0 {
		params.Temperature = param.NewOpt(p.cfg.Temperature)
	}
	return params
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, p.params(prompt))
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}

	for _, content := range msg.Content {
		if content.Type == "text" {
			return content.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude response")
}

func (p *Provider) GenerateStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := p.client.Messages.NewStreaming(ctx, p.params(prompt))
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch eventVariant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch deltaVariant := eventVariant.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if !yield(deltaVariant.Text, nil) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("Claude stream error: %w", err))
		}
	}
}
