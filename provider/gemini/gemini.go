// Package gemini implements the Generator interface on Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sweetpotato0/krishigpt/config"
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-2.5-flash",
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Provider implements provider.Generator for Google Gemini
type Provider struct {
	cfg    *Config
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a new Gemini provider
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig("")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	if err := config.ValidateLLMConfig(cfg.APIKey, cfg.Model, float64(cfg.Temperature), int(cfg.MaxTokens)); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxTokens)
	}

	return &Provider{
		cfg:    cfg,
		client: client,
		model:  model,
	}, nil
}

func (p *Provider) Name() string { return "gemini" }

func (p *Provider) Available() bool {
	return p != nil && p.client != nil
}

// Close releases the underlying client connection.
func (p *Provider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("no content in Gemini response")
	}
	return text, nil
}

func (p *Provider) GenerateStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		it := p.model.GenerateContentStream(ctx, genai.Text(prompt))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("Gemini stream error: %w", err))
				return
			}
			if chunk := responseText(resp); chunk != "" {
				if !yield(chunk, nil) {
					return
				}
			}
		}
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
