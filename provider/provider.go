// Package provider abstracts the LLM backends that generate advice text.
package provider

import (
	"context"
	"iter"
)

// Generator produces advice text from a fully assembled prompt.
type Generator interface {
	// Name identifies the backend for logging.
	Name() string

	// Available reports whether the backend is configured and usable.
	// The pipeline degrades to a canned unavailable response when false.
	Available() bool

	// Generate returns the complete response text.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream yields response chunks as they arrive. Iteration
	// stops after the first error.
	GenerateStream(ctx context.Context, prompt string) iter.Seq2[string, error]
}
