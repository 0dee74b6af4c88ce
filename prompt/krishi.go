package prompt

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/message"
)

// SystemPrompt is the fixed instruction block sent with every generation.
// The response format contract here is what the sanitizer and confidence
// parser downstream rely on.
const SystemPrompt = `You are KrishiGPT, an AI assistant specifically designed to help farmers in India with agricultural decisions.

## CRITICAL RULES - YOU MUST FOLLOW THESE:

1. **RESPONSE FORMAT** - Every response MUST follow this exact structure:
` + "```" + `
PROBLEM SUMMARY: (one short sentence describing the issue)

DO THIS TODAY:
- Step 1
- Step 2

NEXT 7–14 DAYS:
- Step 1
- Step 2

⚠️ DO NOT DO:
- Mistake 1
- Mistake 2

CONFIDENCE: Low | Medium | High
` + "```" + `

2. **SAFETY FIRST**:
- NEVER recommend banned pesticides (endosulfan, monocrotophos, etc.)
- NEVER give exact dosages without knowing land size
- ALWAYS add disclaimers for chemical recommendations
- If unsure, say "Consult your local agricultural officer"

3. **CONTEXT REQUIREMENTS**:
- If crop type is unknown → ASK before giving advice
- If crop stage is unknown → ASK before giving advice
- If land size is unknown → DO NOT give dosage amounts

4. **LANGUAGE**:
- Use simple, clear language
- Avoid technical jargon unless necessary
- Use bullet points, not paragraphs
- Keep sentences short

5. **CONFIDENCE LEVELS**:
- HIGH: All context available, clear diagnosis
- MEDIUM: Some context missing but advice is general
- LOW: Significant context missing, advice is speculative

6. **WHEN TO ASK QUESTIONS**:
If you cannot provide confident advice, respond with:
` + "```" + `
I need more information to help you properly.

Please tell me:
- [specific question 1]
- [specific question 2]
` + "```" + `

Remember: Farmer safety is more important than giving a quick answer. When in doubt, ask questions.`

// historyLimit and historyCharLimit bound how much past conversation is
// replayed into the prompt.
const (
	historyLimit     = 10
	historyCharLimit = 500
)

// ContextBlock renders the farm context for injection into the prompt.
// Unknown critical fields are marked so the model asks instead of guessing.
func ContextBlock(c farm.Context) string {
	b := NewBuilder()
	b.AddLine("## FARMER CONTEXT:")

	if c.Location != "" {
		b.AddFormat("- Location: %s\n", c.Location)
	} else {
		b.AddLine("- Location: Unknown")
	}

	if c.Crop != "" {
		b.AddFormat("- Crop: %s\n", c.Crop)
	} else {
		b.AddLine("- Crop: Unknown (ASK FARMER)")
	}

	if c.CropStage != "" {
		b.AddFormat("- Crop Stage: %s\n", c.CropStage)
	} else {
		b.AddLine("- Crop Stage: Unknown (ASK FARMER)")
	}

	if c.Season != "" {
		b.AddFormat("- Season: %s\n", c.Season)
	}

	if c.SoilType != "" {
		b.AddFormat("- Soil Type: %s\n", c.SoilType)
	}

	if c.LandSizeAcres > 0 {
		b.AddFormat("- Land Size: %g acres\n", c.LandSizeAcres)
	} else {
		b.AddLine("- Land Size: Unknown (DO NOT GIVE DOSAGES)")
	}

	if c.IrrigationMethod != "" {
		b.AddFormat("- Irrigation: %s\n", c.IrrigationMethod)
	}

	if c.WeatherSummary != "" {
		b.AddFormat("- Recent Weather: %s\n", c.WeatherSummary)
	}

	return strings.TrimRight(b.Build(), "\n")
}

// ConversationHistory formats past messages for the prompt. Only the last
// ten messages are replayed and each is truncated.
func ConversationHistory(messages []*message.Message) string {
	if len(messages) == 0 {
		return ""
	}

	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}

	b := NewBuilder()
	b.Add("## PREVIOUS CONVERSATION:")

	for _, msg := range messages {
		role := "KrishiGPT"
		if msg.Role == message.RoleUser {
			role = "Farmer"
		}
		content := msg.Content
		if runes := []rune(content); len(runes) > historyCharLimit {
			content = string(runes[:historyCharLimit])
		}
		b.AddFormat("\n\n%s: %s", role, content)
	}

	return b.Build()
}

// ToolSummary is a one-line digest of a tool run for prompt injection.
type ToolSummary struct {
	Tool    string
	Summary string
}

// FullPrompt assembles the complete generation prompt: system instructions,
// farm context, conversation history, tool results, and the question.
func FullPrompt(userMessage string, c farm.Context, history []*message.Message, toolResults []ToolSummary) string {
	b := NewBuilder()
	b.Add(SystemPrompt)

	b.Add("\n\n" + ContextBlock(c))

	if historyBlock := ConversationHistory(history); historyBlock != "" {
		b.Add("\n\n" + historyBlock)
	}

	if len(toolResults) > 0 {
		b.Add("\n\n## TOOL RESULTS:")
		for _, result := range toolResults {
			summary := result.Summary
			if summary == "" {
				summary = "No summary"
			}
			b.AddFormat("\n- %s: %s", result.Tool, summary)
		}
	}

	b.AddFormat("\n\n## FARMER'S QUESTION:\n%s", userMessage)
	b.Add("\n\n## YOUR RESPONSE (follow the format above):")

	return b.Build()
}

// Clarifying question per missing context field.
var fieldQuestions = map[farm.Field]string{
	farm.FieldCrop:       "What crop are you growing?",
	farm.FieldCropStage:  "What stage is your crop in? (sowing/vegetative/flowering/harvest)",
	farm.FieldLocation:   "Which state/district are you in?",
	farm.FieldLandSize:   "How many acres is your farm?",
	farm.FieldSoilType:   "What type of soil do you have?",
	farm.FieldIrrigation: "How do you irrigate your crops?",
}

const clarificationTemplate = `I want to help you with: "{{.Question}}"

But I need more information to give you accurate advice.

Please tell me:
{{.Items}}

CONFIDENCE: Low (waiting for more information)`

// templates holds the named templates the pipeline renders. Populated once
// at startup.
var templates = func() *Manager {
	m := NewManager()
	if err := m.RegisterString("clarification", clarificationTemplate); err != nil {
		panic(err)
	}
	return m
}()

// ClarificationPrompt builds the response asking the farmer for the missing
// context fields instead of answering.
func ClarificationPrompt(missing []farm.Field, originalQuestion string) string {
	items := make([]string, 0, len(missing))
	for _, field := range missing {
		q, ok := fieldQuestions[field]
		if !ok {
			q = fmt.Sprintf("What is your %s?", field)
		}
		items = append(items, "- "+q)
	}

	out, err := templates.Render("clarification", map[string]interface{}{
		"Question": originalQuestion,
		"Items":    strings.Join(items, "\n"),
	})
	if err != nil {
		// Template variables are plain strings, rendering cannot fail.
		return ""
	}
	return out
}
