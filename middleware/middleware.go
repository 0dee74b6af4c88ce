package middleware

import (
	"context"
	"log/slog"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/message"
	"github.com/sweetpotato0/krishigpt/safety"
)

// Context carries one request through the advice pipeline. Middlewares may
// read and mutate it; Metadata passes data between stages.
type Context struct {
	// ConversationID identifies the conversation, used as the default
	// rate-limit key.
	ConversationID string

	// Input is the farmer's raw message.
	Input string

	// Farm is the structured context accumulated for this conversation.
	Farm farm.Context

	// Messages holds the history loaded before generation.
	Messages []*message.Message

	// Response is the assistant message produced downstream.
	Response *message.Message

	// Metadata passes data between middlewares.
	Metadata map[string]interface{}

	context context.Context
}

// NewContext creates a new middleware context.
func NewContext(ctx context.Context) *Context {
	return &Context{
		Metadata: make(map[string]interface{}),
		context:  ctx,
	}
}

// Context returns the underlying context.Context.
func (c *Context) Context() context.Context {
	return c.context
}

// Middleware intercepts requests and responses around the generation step.
type Middleware interface {
	// Name returns the name of the middleware for logging and debugging
	Name() string

	// Execute runs the middleware logic. Returning an error stops the chain.
	Execute(ctx *Context, next Handler) error
}

// Handler is the function called to pass control to the next middleware
type Handler func(*Context) error

// Chain represents a sequence of middleware to be executed
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{
		middlewares: middlewares,
	}
}

// Add appends a middleware to the chain
func (c *Chain) Add(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Len returns the number of middlewares in the chain.
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// Execute runs all middlewares in the chain, then the final handler.
func (c *Chain) Execute(ctx *Context, finalHandler Handler) error {
	return c.execute(ctx, 0, finalHandler)
}

func (c *Chain) execute(ctx *Context, index int, finalHandler Handler) error {
	if index >= len(c.middlewares) {
		return finalHandler(ctx)
	}
	next := func(ctx *Context) error {
		return c.execute(ctx, index+1, finalHandler)
	}
	return c.middlewares[index].Execute(ctx, next)
}

// RequestLogger logs incoming farmer messages.
type RequestLogger struct {
	logger *slog.Logger
}

// NewRequestLogger creates a request logging middleware
func NewRequestLogger(logger *slog.Logger) *RequestLogger {
	return &RequestLogger{logger: logger}
}

// Name returns the middleware name
func (m *RequestLogger) Name() string {
	return "RequestLogger"
}

// Execute logs the request
func (m *RequestLogger) Execute(ctx *Context, next Handler) error {
	if m.logger != nil {
		m.logger.Info("incoming message",
			"conversation_id", ctx.ConversationID,
			"length", len(ctx.Input))
	}
	return next(ctx)
}

// ResponseLogger logs outgoing responses with their confidence level.
type ResponseLogger struct {
	logger *slog.Logger
}

// NewResponseLogger creates a response logging middleware
func NewResponseLogger(logger *slog.Logger) *ResponseLogger {
	return &ResponseLogger{logger: logger}
}

// Name returns the middleware name
func (m *ResponseLogger) Name() string {
	return "ResponseLogger"
}

// Execute logs the response
func (m *ResponseLogger) Execute(ctx *Context, next Handler) error {
	err := next(ctx)
	if m.logger != nil && ctx.Response != nil {
		m.logger.Info("outgoing response",
			"conversation_id", ctx.ConversationID,
			"confidence", string(ctx.Response.Confidence),
			"length", len(ctx.Response.Content))
	}
	return err
}

// InputValidator validates the farmer's message before generation.
type InputValidator struct {
	validator func(string) error
}

// NewInputValidator creates an input validation middleware
func NewInputValidator(validator func(string) error) *InputValidator {
	return &InputValidator{validator: validator}
}

// Name returns the middleware name
func (m *InputValidator) Name() string {
	return "InputValidator"
}

// Execute validates the input
func (m *InputValidator) Execute(ctx *Context, next Handler) error {
	if m.validator != nil {
		if err := m.validator(ctx.Input); err != nil {
			return err
		}
	}
	return next(ctx)
}

// ResponseSanitizer rewrites banned chemical names in the generated response.
// It runs after generation regardless of which provider produced the text.
type ResponseSanitizer struct{}

// NewResponseSanitizer creates a sanitizing middleware
func NewResponseSanitizer() *ResponseSanitizer {
	return &ResponseSanitizer{}
}

// Name returns the middleware name
func (m *ResponseSanitizer) Name() string {
	return "ResponseSanitizer"
}

// Execute sanitizes the response content
func (m *ResponseSanitizer) Execute(ctx *Context, next Handler) error {
	err := next(ctx)
	if err != nil {
		return err
	}
	if ctx.Response != nil {
		ctx.Response.Content = safety.SanitizeResponse(ctx.Response.Content)
	}
	return nil
}

// ContextEnricher adds additional data to the middleware context before
// generation, for example weather summaries fetched per location.
type ContextEnricher struct {
	enricher func(*Context) error
}

// NewContextEnricher creates a context enriching middleware
func NewContextEnricher(enricher func(*Context) error) *ContextEnricher {
	return &ContextEnricher{enricher: enricher}
}

// Name returns the middleware name
func (m *ContextEnricher) Name() string {
	return "ContextEnricher"
}

// Execute enriches the context
func (m *ContextEnricher) Execute(ctx *Context, next Handler) error {
	if m.enricher != nil {
		if err := m.enricher(ctx); err != nil {
			return err
		}
	}
	return next(ctx)
}
