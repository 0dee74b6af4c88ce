package controller

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"iter"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
	"github.com/sweetpotato0/krishigpt/message"
	"github.com/sweetpotato0/krishigpt/middleware"
	"github.com/sweetpotato0/krishigpt/pkg/telemetry"
	"github.com/sweetpotato0/krishigpt/safety"
)

// StreamEvent is one frame of the streaming flow. Intermediate frames carry
// Chunk; the terminal frame carries FullText, Confidence and Intent, or
// Error on failure.
type StreamEvent struct {
	Type       string               `json:"type,omitempty"`
	Chunk      string               `json:"chunk,omitempty"`
	Done       bool                 `json:"done"`
	FullText   string               `json:"full_text,omitempty"`
	Confidence farm.ConfidenceLevel `json:"confidence,omitempty"`
	Intent     string               `json:"intent,omitempty"`
	Error      string               `json:"error,omitempty"`
	Message    string               `json:"message,omitempty"`
	Form       *form.Schema         `json:"form,omitempty"`
}

// SSE renders the event as a Server-Sent-Events frame.
func (e *StreamEvent) SSE() string {
	data, err := json.Marshal(e)
	if err != nil {
		// Only unmarshalable form content can get here.
		data = []byte(`{"error":"encoding failed","done":true}`)
	}
	return fmt.Sprintf("data: %s\n\n", data)
}

// ProcessMessageStream is the streaming variant of ProcessMessage. The
// decision logic is identical; each text fragment passes through the
// sanitizer before emission and a terminal frame carries the accumulated
// text with its confidence. Stopping the iteration releases the underlying
// generation call.
//
// Middlewares run once before generation starts; response-stage middlewares
// observe no response in this mode since the text is emitted incrementally.
func (c *Controller) ProcessMessageStream(ctx context.Context, req *MessageRequest) iter.Seq2[*StreamEvent, error] {
	return func(yield func(*StreamEvent, error) bool) {
		ctx, span := c.tracer.Start(ctx, "controller.ProcessMessageStream",
			trace.WithAttributes(attribute.String("conversation_id", req.ConversationID)))
		var spanErr error
		defer func() { telemetry.End(span, spanErr) }()

		p, err := c.prepare(ctx, req)
		if err != nil {
			spanErr = err
			yield(nil, err)
			return
		}
		if p.formRequest != nil {
			yield(&StreamEvent{
				Type:    string(TypeFormRequest),
				Done:    true,
				Message: p.formRequest.Message,
				Form:    p.formRequest.Form,
				Intent:  p.formRequest.Intent,
			}, nil)
			return
		}

		if !c.available() {
			yield(&StreamEvent{Done: true, Error: unavailableMessage}, nil)
			return
		}

		mwCtx := middleware.NewContext(ctx)
		mwCtx.ConversationID = req.ConversationID
		mwCtx.Input = p.userMessage
		mwCtx.Farm = p.farmContext
		mwCtx.Messages = p.history
		if err := c.chain.Execute(mwCtx, func(*middleware.Context) error { return nil }); err != nil {
			if stderrors.Is(err, middleware.ErrRateLimitExceeded) {
				spanErr = errors.ErrRateLimited
				yield(nil, fmt.Errorf("%w: conversation %s", errors.ErrRateLimited, req.ConversationID))
				return
			}
			spanErr = err
			yield(nil, err)
			return
		}

		fullPrompt := c.buildPrompt(p)
		var accumulated string

		for chunk, err := range c.provider.GenerateStream(ctx, fullPrompt) {
			if err != nil {
				c.logger.Error("streaming generation failed",
					"provider", c.provider.Name(), "error", err)
				spanErr = err
				yield(&StreamEvent{Done: true, Error: generationFailed}, nil)
				return
			}
			if chunk == "" {
				continue
			}
			safe := safety.SanitizeResponse(chunk)
			accumulated += safe
			if !yield(&StreamEvent{Chunk: safe}, nil) {
				return
			}
		}

		conf := c.confidence(p)
		reply := message.NewMessage(message.RoleAssistant, accumulated)
		reply.ConversationID = req.ConversationID
		reply.Confidence = conf
		c.record(ctx, req.ConversationID, p.userMessage, reply)

		yield(&StreamEvent{
			Done:       true,
			FullText:   accumulated,
			Confidence: conf,
			Intent:     p.intent.Primary(),
		}, nil)
	}
}
