// Package controller orchestrates the advice pipeline: context merge, intent
// detection, clarification, prompt assembly, generation, sanitization and
// confidence scoring. Farmer safety takes priority over correctness, speed
// or elegance.
package controller

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/krishigpt/config"
	"github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
	"github.com/sweetpotato0/krishigpt/history"
	"github.com/sweetpotato0/krishigpt/message"
	"github.com/sweetpotato0/krishigpt/middleware"
	"github.com/sweetpotato0/krishigpt/pkg/logging"
	"github.com/sweetpotato0/krishigpt/pkg/telemetry"
	"github.com/sweetpotato0/krishigpt/prompt"
	"github.com/sweetpotato0/krishigpt/provider"
	"github.com/sweetpotato0/krishigpt/safety"
	"github.com/sweetpotato0/krishigpt/tokenizer"
	"github.com/sweetpotato0/krishigpt/tool"
)

// ClarificationPolicy decides how the pipeline asks for missing context.
type ClarificationPolicy string

const (
	// PolicyModel defers clarification to the generation model, which is
	// prompted to ask follow-up questions in natural language. The message
	// flow never short-circuits to a form.
	PolicyModel ClarificationPolicy = "model"

	// PolicyForm short-circuits to a structured clarification form when the
	// detected intent lacks its critical context.
	PolicyForm ClarificationPolicy = "form"
)

// Message length bounds, in runes.
const (
	MinMessageLength = 1
	MaxMessageLength = 4000
)

const (
	defaultHistoryLimit = 10

	unavailableMessage = "AI service not configured"
	generationFailed   = "Unable to generate response. Please try again."
	needMoreInfo       = "I need a bit more information to help you properly."
)

// ResponseType classifies a pipeline response.
type ResponseType string

const (
	TypeResponse    ResponseType = "response"
	TypeFormRequest ResponseType = "form_request"
	TypeError       ResponseType = "error"
)

// ContextUsed reports the context fields that shaped a response.
type ContextUsed struct {
	Crop     string `json:"crop,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Location string `json:"location,omitempty"`
}

// Response is the structured result of processing one farmer message.
type Response struct {
	Type           ResponseType         `json:"type"`
	Content        string               `json:"content,omitempty"`
	Message        string               `json:"message,omitempty"`
	Confidence     farm.ConfidenceLevel `json:"confidence"`
	Intent         string               `json:"intent,omitempty"`
	ContextUsed    *ContextUsed         `json:"context_used,omitempty"`
	Form           *form.Schema         `json:"form,omitempty"`
	RejectedFields []farm.Rejected      `json:"rejected_fields,omitempty"`
}

// Markdown renders the response for text surfaces, appending the confidence
// level so the uncertainty signal survives outside structured clients.
func (r *Response) Markdown() string {
	var b strings.Builder
	switch r.Type {
	case TypeFormRequest:
		b.WriteString(r.Message)
		if r.Form != nil {
			b.WriteString("\n\n**")
			b.WriteString(r.Form.Title)
			b.WriteString("**")
			for _, f := range r.Form.Fields {
				b.WriteString("\n- ")
				b.WriteString(f.Label)
			}
		}
	case TypeError:
		b.WriteString(r.Message)
	default:
		b.WriteString(r.Content)
	}
	if r.Confidence != "" {
		fmt.Fprintf(&b, "\n\n---\n*Confidence: %s*", r.Confidence)
	}
	return b.String()
}

// MessageRequest carries one farmer message into the pipeline.
type MessageRequest struct {
	ConversationID string
	UserMessage    string
	Context        farm.Context

	// History overrides the stored conversation window when non-nil.
	History []*message.Message

	// FormData is an optional form submission merged into Context first.
	FormData map[string]any
}

// ToolEnvelope is the uniform wrapper around a tool execution outcome.
type ToolEnvelope struct {
	Success       bool           `json:"success"`
	Data          map[string]any `json:"data,omitempty"`
	Confidence    string         `json:"confidence,omitempty"`
	Disclaimer    string         `json:"disclaimer,omitempty"`
	RequiresForm  bool           `json:"requires_form,omitempty"`
	Form          *form.Schema   `json:"form,omitempty"`
	MissingFields []farm.Field   `json:"missing_fields,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Controller is the single orchestration entry point. All collaborators are
// fixed at construction; a Controller is safe for concurrent use.
type Controller struct {
	provider     provider.Generator
	tools        *tool.Registry
	forms        *form.Catalog
	store        history.Store
	tokenizer    tokenizer.Tokenizer
	chain        *middleware.Chain
	policy       ClarificationPolicy
	historyLimit int
	logger       *slog.Logger
	tracer       trace.Tracer
}

// Option is a function that configures a Controller
type Option func(*Controller)

// WithProvider sets the generation backend
func WithProvider(g provider.Generator) Option {
	return func(c *Controller) {
		c.provider = g
	}
}

// WithRegistry sets the tool registry
func WithRegistry(r *tool.Registry) Option {
	return func(c *Controller) {
		c.tools = r
	}
}

// WithForms sets the clarification form catalog
func WithForms(cat *form.Catalog) Option {
	return func(c *Controller) {
		c.forms = cat
	}
}

// WithHistory sets the conversation history store
func WithHistory(s history.Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// WithTokenizer enables prompt token accounting
func WithTokenizer(t tokenizer.Tokenizer) Option {
	return func(c *Controller) {
		c.tokenizer = t
	}
}

// WithClarificationPolicy sets how missing context is requested
func WithClarificationPolicy(p ClarificationPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithHistoryLimit sets the conversation window size
func WithHistoryLimit(limit int) Option {
	return func(c *Controller) {
		c.historyLimit = limit
	}
}

// WithMiddleware appends a middleware around the generation step
func WithMiddleware(m middleware.Middleware) Option {
	return func(c *Controller) {
		c.chain.Add(m)
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller. Defaults: the built-in tool registry and form
// catalog, model-led clarification, a ten message history window.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		tools:        tool.Default(),
		forms:        form.Default(),
		chain:        middleware.NewChain(),
		policy:       PolicyModel,
		historyLimit: defaultHistoryLimit,
		logger:       logging.WithComponent("controller"),
		tracer:       telemetry.Tracer("controller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := config.ValidateControllerConfig(c.historyLimit, MaxMessageLength, string(c.policy)); err != nil {
		return nil, err
	}
	return c, nil
}

var scriptTags = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

// ValidateMessageContent trims and bounds-checks a farmer message, stripping
// script tags. Returns the cleaned message or ErrInvalidInput.
func ValidateMessageContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: message cannot be empty", errors.ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", fmt.Errorf("%w: message exceeds maximum length of %d characters", errors.ErrInvalidInput, MaxMessageLength)
	}
	content = strings.TrimSpace(scriptTags.ReplaceAllString(content, ""))
	if content == "" {
		return "", fmt.Errorf("%w: message cannot be empty", errors.ErrInvalidInput)
	}
	return content, nil
}

// intentKeywords is ordered; the first matching category becomes the primary
// intent.
var intentKeywords = []struct {
	name     string
	keywords []string
}{
	{"diagnosis", []string{"problem", "disease", "pest", "yellow", "spots", "wilting", "insects", "dying", "help"}},
	{"fertilizer", []string{"fertilizer", "urea", "dap", "npk", "nutrient", "manure", "खाद"}},
	{"irrigation", []string{"water", "irrigation", "सिंचाई", "पानी", "when to water"}},
	{"weather", []string{"rain", "weather", "frost", "heat", "cold", "बारिश", "मौसम"}},
	{"price", []string{"price", "msp", "rate", "sell", "market", "मंडी", "भाव"}},
	{"pesticide", []string{"pesticide", "spray", "कीटनाशक", "दवाई"}},
}

// IntentResult is the outcome of keyword intent detection.
type IntentResult struct {
	Intents            []string
	NeedsClarification bool
}

// Primary returns the first detected intent.
func (r IntentResult) Primary() string {
	if len(r.Intents) == 0 {
		return "general"
	}
	return r.Intents[0]
}

// DetectIntent matches the lower-cased message against fixed keyword lists.
// Zero matches fall back to "general"; zero or more than two matches flag
// that clarification is needed.
func DetectIntent(msg string) IntentResult {
	lower := strings.ToLower(msg)
	var detected []string
	for _, cat := range intentKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				detected = append(detected, cat.name)
				break
			}
		}
	}
	needs := len(detected) == 0 || len(detected) > 2
	if len(detected) == 0 {
		detected = []string{"general"}
	}
	return IntentResult{Intents: detected, NeedsClarification: needs}
}

// clarificationForm returns the form id to request when the intent's
// critical context is missing, or "" when the context suffices.
func clarificationForm(fc farm.Context, intent string) string {
	switch intent {
	case "fertilizer":
		if !fc.SufficientForDosage() {
			return "crop_info"
		}
	case "diagnosis":
		if !fc.SufficientForDiagnosis() {
			return "problem_report"
		}
	case "pesticide":
		if !fc.Has(farm.FieldLocation) {
			return "location_info"
		}
	}
	return ""
}

// checkSufficiency applies the clarification policy. Under PolicyModel it is
// a pass-through and the model asks follow-up questions itself; under
// PolicyForm it returns the form to request.
func (c *Controller) checkSufficiency(fc farm.Context, intent string) (bool, string) {
	if c.policy != PolicyForm {
		return true, ""
	}
	formID := clarificationForm(fc, intent)
	return formID == "", formID
}

// prepared is the shared front half of the message flow.
type prepared struct {
	userMessage string
	farmContext farm.Context
	rejected    []farm.Rejected
	intent      IntentResult
	formRequest *Response
	history     []*message.Message
}

func (c *Controller) prepare(ctx context.Context, req *MessageRequest) (*prepared, error) {
	userMessage, err := ValidateMessageContent(req.UserMessage)
	if err != nil {
		return nil, err
	}

	p := &prepared{userMessage: userMessage, farmContext: req.Context}
	if req.FormData != nil {
		p.farmContext, p.rejected = req.Context.ApplyForm(req.FormData)
		for _, rej := range p.rejected {
			c.logger.Warn("form value rejected",
				"conversation_id", req.ConversationID,
				"field", rej.Field)
		}
	}

	p.intent = DetectIntent(userMessage)

	if ok, formID := c.checkSufficiency(p.farmContext, p.intent.Primary()); !ok {
		schema, err := c.forms.Get(formID)
		if err != nil {
			// A missing schema must not strand the farmer; fall through
			// to generation and let the model ask instead.
			c.logger.Error("clarification form missing", "form_id", formID, "error", err)
		} else {
			p.formRequest = &Response{
				Type:           TypeFormRequest,
				Message:        needMoreInfo,
				Confidence:     farm.ConfidenceLow,
				Intent:         p.intent.Primary(),
				Form:           schema,
				RejectedFields: p.rejected,
			}
			return p, nil
		}
	}

	p.history = req.History
	if p.history == nil && req.ConversationID != "" && c.store != nil {
		msgs, err := c.store.Recent(ctx, req.ConversationID, c.historyLimit)
		if err != nil {
			c.logger.Error("history fetch failed",
				"conversation_id", req.ConversationID, "error", err)
		} else {
			p.history = msgs
		}
	}
	return p, nil
}

func (c *Controller) buildPrompt(p *prepared) string {
	full := prompt.FullPrompt(p.userMessage, p.farmContext, p.history, nil)
	if c.tokenizer != nil {
		c.logger.Debug("prompt assembled", "tokens", c.tokenizer.CountTokens(full))
	}
	return full
}

func (c *Controller) available() bool {
	return c.provider != nil && c.provider.Available()
}

func (c *Controller) confidence(p *prepared) farm.ConfidenceLevel {
	fc := p.farmContext
	return safety.ComputeConfidence(
		fc.Crop != "",
		fc.CropStage != "",
		fc.Location != "",
		fc.LandSizeAcres > 0,
		p.intent.Primary() == "fertilizer",
	)
}

func contextUsed(fc farm.Context) *ContextUsed {
	return &ContextUsed{
		Crop:     fc.Crop,
		Stage:    string(fc.CropStage),
		Location: fc.Location,
	}
}

// record appends the farmer message and the assistant reply to the history
// store. Failures are logged, never surfaced; losing history must not lose
// the answer.
func (c *Controller) record(ctx context.Context, conversationID, userMessage string, reply *message.Message) {
	if c.store == nil || conversationID == "" {
		return
	}
	if err := c.store.Append(ctx, conversationID, message.NewMessage(message.RoleUser, userMessage)); err != nil {
		c.logger.Error("history append failed", "conversation_id", conversationID, "error", err)
		return
	}
	if err := c.store.Append(ctx, conversationID, reply); err != nil {
		c.logger.Error("history append failed", "conversation_id", conversationID, "error", err)
	}
}

// ProcessMessage runs the full pipeline for one farmer message and returns a
// structured response. Operational failures (unconfigured provider,
// generation error) come back as low-confidence error responses, not Go
// errors; only invalid input and rate limiting are returned as errors.
func (c *Controller) ProcessMessage(ctx context.Context, req *MessageRequest) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "controller.ProcessMessage",
		trace.WithAttributes(attribute.String("conversation_id", req.ConversationID)))
	var spanErr error
	defer func() { telemetry.End(span, spanErr) }()

	p, err := c.prepare(ctx, req)
	if err != nil {
		spanErr = err
		return nil, err
	}
	if p.formRequest != nil {
		return p.formRequest, nil
	}

	if !c.available() {
		return &Response{
			Type:           TypeError,
			Message:        unavailableMessage,
			Confidence:     farm.ConfidenceLow,
			Intent:         p.intent.Primary(),
			RejectedFields: p.rejected,
		}, nil
	}

	fullPrompt := c.buildPrompt(p)

	mwCtx := middleware.NewContext(ctx)
	mwCtx.ConversationID = req.ConversationID
	mwCtx.Input = p.userMessage
	mwCtx.Farm = p.farmContext
	mwCtx.Messages = p.history

	err = c.chain.Execute(mwCtx, func(mc *middleware.Context) error {
		text, genErr := c.provider.Generate(mc.Context(), fullPrompt)
		if genErr != nil {
			return genErr
		}
		mc.Response = message.NewMessage(message.RoleAssistant, text)
		return nil
	})
	if err != nil {
		if stderrors.Is(err, middleware.ErrRateLimitExceeded) {
			spanErr = errors.ErrRateLimited
			return nil, fmt.Errorf("%w: conversation %s", errors.ErrRateLimited, req.ConversationID)
		}
		c.logger.Error("generation failed", "provider", c.provider.Name(), "error", err)
		spanErr = err
		return &Response{
			Type:           TypeError,
			Message:        generationFailed,
			Confidence:     farm.ConfidenceLow,
			Intent:         p.intent.Primary(),
			RejectedFields: p.rejected,
		}, nil
	}

	content := safety.SanitizeResponse(mwCtx.Response.Content)
	conf := c.confidence(p)

	reply := message.NewMessage(message.RoleAssistant, content)
	reply.ConversationID = req.ConversationID
	reply.Confidence = conf
	c.record(ctx, req.ConversationID, p.userMessage, reply)

	return &Response{
		Type:           TypeResponse,
		Content:        content,
		Confidence:     conf,
		Intent:         p.intent.Primary(),
		ContextUsed:    contextUsed(p.farmContext),
		RejectedFields: p.rejected,
	}, nil
}

// ExecuteTool runs a registered tool with safety validation and wraps the
// outcome in a uniform envelope. Missing context is not an error; the
// envelope carries the tool's clarification form instead.
func (c *Controller) ExecuteTool(ctx context.Context, toolName string, fc farm.Context, params map[string]any) (*ToolEnvelope, error) {
	ctx, span := c.tracer.Start(ctx, "controller.ExecuteTool",
		trace.WithAttributes(attribute.String("tool", toolName)))
	var spanErr error
	defer func() { telemetry.End(span, spanErr) }()

	t, err := c.tools.Get(toolName)
	if err != nil {
		return &ToolEnvelope{
			Success: false,
			Error:   fmt.Sprintf("Tool '%s' not found", toolName),
		}, nil
	}

	if valid, missing := tool.ValidateContext(t, fc); !valid {
		if schema := t.ClarificationForm(); schema != nil {
			return &ToolEnvelope{
				Success:       false,
				RequiresForm:  true,
				Form:          schema,
				MissingFields: missing,
			}, nil
		}
		names := make([]string, 0, len(missing))
		for _, f := range missing {
			names = append(names, string(f))
		}
		return &ToolEnvelope{
			Success: false,
			Error:   "Missing required context: " + strings.Join(names, ", "),
		}, nil
	}

	result, err := t.Execute(ctx, fc, params)
	if err != nil {
		c.logger.Error("tool execution failed", "tool", toolName, "error", err)
		spanErr = err
		return nil, fmt.Errorf("execute %s: %w", toolName, err)
	}

	env := &ToolEnvelope{
		Success:    result.Success,
		Data:       result.Data,
		Confidence: string(result.Confidence),
		Error:      result.Error,
	}
	if result.RequiresDisclaimer {
		env.Disclaimer = result.DisclaimerText
	}
	return env, nil
}

// AvailableForms returns every clarification form schema.
func (c *Controller) AvailableForms() []*form.Schema {
	return c.forms.List()
}

// AvailableToolNames returns the names of the registered tools.
func (c *Controller) AvailableToolNames() []string {
	return c.tools.Names()
}
