package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/message"
)

func TestContextBlockComplete(t *testing.T) {
	c := farm.Context{
		Location:         "Ludhiana, Punjab",
		Crop:             "wheat",
		CropStage:        farm.StageVegetative,
		Season:           farm.SeasonRabi,
		SoilType:         farm.SoilAlluvial,
		LandSizeAcres:    5,
		IrrigationMethod: "flood",
		WeatherSummary:   "dry week",
	}

	block := ContextBlock(c)

	for _, want := range []string{
		"- Location: Ludhiana, Punjab",
		"- Crop: wheat",
		"- Crop Stage: vegetative",
		"- Season: rabi",
		"- Soil Type: alluvial",
		"- Land Size: 5 acres",
		"- Irrigation: flood",
		"- Recent Weather: dry week",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("context block missing %q:\n%s", want, block)
		}
	}
	if strings.Contains(block, "ASK FARMER") {
		t.Error("complete context should not ask the farmer")
	}
}

func TestContextBlockMarksUnknowns(t *testing.T) {
	block := ContextBlock(farm.Context{})

	for _, want := range []string{
		"- Location: Unknown",
		"- Crop: Unknown (ASK FARMER)",
		"- Crop Stage: Unknown (ASK FARMER)",
		"- Land Size: Unknown (DO NOT GIVE DOSAGES)",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("context block missing %q:\n%s", want, block)
		}
	}
	// Optional fields are skipped entirely when unknown.
	if strings.Contains(block, "Season") || strings.Contains(block, "Soil Type") {
		t.Errorf("unknown optional fields should be omitted:\n%s", block)
	}
}

func TestConversationHistoryEmpty(t *testing.T) {
	if got := ConversationHistory(nil); got != "" {
		t.Errorf("empty history should render to empty string, got %q", got)
	}
}

func TestConversationHistoryRolesAndWindow(t *testing.T) {
	var msgs []*message.Message
	for i := 0; i < 12; i++ {
		role := message.RoleUser
		if i%2 == 1 {
			role = message.RoleAssistant
		}
		msgs = append(msgs, message.NewMessage(role, fmt.Sprintf("msg-%d", i)))
	}

	block := ConversationHistory(msgs)

	// "msg-1" alone would also match msg-10 and msg-11; the message
	// separator disambiguates.
	if strings.Contains(block, "Farmer: msg-0\n") || strings.Contains(block, "KrishiGPT: msg-1\n") {
		t.Error("only the last ten messages should be included")
	}
	if !strings.Contains(block, "Farmer: msg-2") {
		t.Errorf("user messages should be labeled Farmer:\n%s", block)
	}
	if !strings.Contains(block, "KrishiGPT: msg-3") {
		t.Errorf("assistant messages should be labeled KrishiGPT:\n%s", block)
	}
}

func TestConversationHistoryTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("x", 800)
	msgs := []*message.Message{message.NewMessage(message.RoleUser, long)}

	block := ConversationHistory(msgs)
	if strings.Contains(block, strings.Repeat("x", 501)) {
		t.Error("messages should be truncated to 500 characters")
	}
	if !strings.Contains(block, strings.Repeat("x", 500)) {
		t.Error("truncation should keep the first 500 characters")
	}
}

func TestFullPrompt(t *testing.T) {
	c := farm.Context{Crop: "wheat", CropStage: farm.StageVegetative}
	history := []*message.Message{
		message.NewMessage(message.RoleUser, "My wheat looks weak"),
	}
	toolResults := []ToolSummary{
		{Tool: "recommend_fertilizer", Summary: "urea 50 kg/acre"},
		{Tool: "soil_health_analysis"},
	}

	p := FullPrompt("What fertilizer should I use?", c, history, toolResults)

	if !strings.HasPrefix(p, "You are KrishiGPT") {
		t.Error("prompt must start with the system instructions")
	}
	for _, want := range []string{
		"## FARMER CONTEXT:",
		"## PREVIOUS CONVERSATION:",
		"## TOOL RESULTS:",
		"- recommend_fertilizer: urea 50 kg/acre",
		"- soil_health_analysis: No summary",
		"## FARMER'S QUESTION:\nWhat fertilizer should I use?",
		"## YOUR RESPONSE (follow the format above):",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFullPromptOmitsEmptySections(t *testing.T) {
	p := FullPrompt("hello", farm.Context{}, nil, nil)

	if strings.Contains(p, "## PREVIOUS CONVERSATION:") {
		t.Error("empty history should be omitted")
	}
	if strings.Contains(p, "## TOOL RESULTS:") {
		t.Error("empty tool results should be omitted")
	}
}

func TestClarificationPrompt(t *testing.T) {
	p := ClarificationPrompt([]farm.Field{farm.FieldCrop, farm.FieldLandSize}, "fertilizer dose?")

	for _, want := range []string{
		`I want to help you with: "fertilizer dose?"`,
		"- What crop are you growing?",
		"- How many acres is your farm?",
		"CONFIDENCE: Low (waiting for more information)",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("clarification prompt missing %q:\n%s", want, p)
		}
	}
}

func TestClarificationTemplateRegistered(t *testing.T) {
	tmpl, err := templates.Get("clarification")
	if err != nil {
		t.Fatalf("Get(clarification) error = %v", err)
	}
	if tmpl.Content != clarificationTemplate {
		t.Error("registered template does not match its source")
	}

	names := templates.List()
	found := false
	for _, n := range names {
		if n == "clarification" {
			found = true
		}
	}
	if !found {
		t.Errorf("List() = %v, clarification missing", names)
	}
}

func TestClarificationPromptUnknownField(t *testing.T) {
	p := ClarificationPrompt([]farm.Field{farm.FieldWeather}, "advice?")
	if !strings.Contains(p, "- What is your weather_summary?") {
		t.Errorf("fallback question missing:\n%s", p)
	}
}
