package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
	"github.com/sweetpotato0/krishigpt/safety"
)

// PesticideSafetyCheck checks a pesticide against the ban tables and
// provides usage guidelines.
type PesticideSafetyCheck struct{}

func (t *PesticideSafetyCheck) Definition() Definition {
	return Definition{
		Name:        "pesticide_safety_check",
		Description: "Check if a pesticide is safe and provide usage guidelines",
		Parameters: []Parameter{
			{Name: "pesticide_name", Type: "string", Description: "Name of pesticide to check", Required: true},
		},
		RequiresContext: []farm.Field{farm.FieldLocation},
		MinConfidence:   farm.ConfidenceHigh,
		SafetyCritical:  true,
	}
}

func (t *PesticideSafetyCheck) ClarificationForm() *form.Schema { return nil }

func (t *PesticideSafetyCheck) Execute(_ context.Context, fc farm.Context, params map[string]interface{}) (*Result, error) {
	pesticide, _ := params["pesticide_name"].(string)

	isSafe, warning := safety.ValidateChemicalName(pesticide, fc.Location)

	if !isSafe {
		return &Result{
			Success: true,
			Data: map[string]interface{}{
				"pesticide":   pesticide,
				"is_banned":   true,
				"warning":     warning,
				"alternative": "Use neem-based or biological pest control",
			},
			Confidence:         farm.ConfidenceHigh,
			RequiresDisclaimer: true,
			DisclaimerText:     warning,
		}, nil
	}

	data := map[string]interface{}{
		"pesticide": pesticide,
		"is_banned": false,
		"safety_guidelines": []string{
			"Wear protective clothing and gloves",
			"Do not spray against wind direction",
			"Keep away from water sources",
			"Follow label instructions for dosage",
			"Maintain safe interval before harvest",
		},
	}
	if limit, ok := safety.MaxConcentration(pesticide); ok {
		data["max_concentration_per_liter"] = limit
	}

	return &Result{
		Success:            true,
		Data:               data,
		Confidence:         farm.ConfidenceMedium,
		RequiresDisclaimer: true,
		DisclaimerText:     "Always follow label instructions. Consult agricultural officer for specific guidance.",
	}, nil
}
