package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
	"github.com/sweetpotato0/krishigpt/safety"
)

// DiagnoseCropIssue diagnoses crop problems from visible symptoms.
type DiagnoseCropIssue struct{}

func (t *DiagnoseCropIssue) Definition() Definition {
	return Definition{
		Name:        "diagnose_crop_issue",
		Description: "Diagnose crop problems based on visible symptoms",
		Parameters: []Parameter{
			{Name: "symptoms", Type: "array", Description: "List of observed symptoms", Required: true},
			{Name: "affected_area", Type: "string", Description: "Which part of plant is affected", Required: false},
		},
		RequiresContext: []farm.Field{farm.FieldCrop, farm.FieldCropStage},
		MinConfidence:   farm.ConfidenceMedium,
		SafetyCritical:  false,
	}
}

func (t *DiagnoseCropIssue) ClarificationForm() *form.Schema {
	return &form.Schema{
		ID:         "diagnose_crop_form",
		Title:      "Tell me about your crop problem",
		TitleHindi: "अपनी फसल की समस्या बताएं",
		Fields: []form.Field{
			{
				Name:       "crop",
				Type:       form.FieldTypeSelect,
				Label:      "Which crop?",
				LabelHindi: "कौन सी फसल?",
				Required:   true,
				Options: []form.Option{
					{Value: "wheat", Label: "Wheat", LabelHindi: "गेहूं"},
					{Value: "rice", Label: "Rice", LabelHindi: "चावल"},
					{Value: "cotton", Label: "Cotton", LabelHindi: "कपास"},
					{Value: "mustard", Label: "Mustard", LabelHindi: "सरसों"},
					{Value: "sugarcane", Label: "Sugarcane", LabelHindi: "गन्ना"},
					{Value: "maize", Label: "Maize", LabelHindi: "मक्का"},
					{Value: "soybean", Label: "Soybean", LabelHindi: "सोयाबीन"},
					{Value: "groundnut", Label: "Groundnut", LabelHindi: "मूंगफली"},
					{Value: "other", Label: "Other", LabelHindi: "अन्य"},
				},
			},
			{
				Name:       "crop_stage",
				Type:       form.FieldTypeRadio,
				Label:      "Crop stage",
				LabelHindi: "फसल की अवस्था",
				Required:   true,
				Options: []form.Option{
					{Value: "sowing", Label: "Sowing", LabelHindi: "बुवाई"},
					{Value: "vegetative", Label: "Vegetative", LabelHindi: "वानस्पतिक"},
					{Value: "flowering", Label: "Flowering", LabelHindi: "फूल आना"},
					{Value: "harvest", Label: "Ready for harvest", LabelHindi: "कटाई के लिए तैयार"},
				},
			},
			{
				Name:       "symptoms",
				Type:       form.FieldTypeCheckbox,
				Label:      "What do you see?",
				LabelHindi: "आप क्या देख रहे हैं?",
				Required:   true,
				Options: []form.Option{
					{Value: "yellow_leaves", Label: "Yellow leaves", LabelHindi: "पीले पत्ते"},
					{Value: "brown_spots", Label: "Brown spots", LabelHindi: "भूरे धब्बे"},
					{Value: "wilting", Label: "Wilting", LabelHindi: "मुरझाना"},
					{Value: "insects", Label: "Insects visible", LabelHindi: "कीड़े दिखाई दे रहे"},
					{Value: "holes", Label: "Holes in leaves", LabelHindi: "पत्तों में छेद"},
					{Value: "white_powder", Label: "White powder", LabelHindi: "सफेद पाउडर"},
					{Value: "stunted", Label: "Stunted growth", LabelHindi: "विकास रुका हुआ"},
				},
			},
		},
		SubmitAction:     "diagnose_crop_issue",
		SubmitLabel:      "Get Diagnosis",
		SubmitLabelHindi: "निदान प्राप्त करें",
	}
}

// Symptom to likely cause and first action. A rule table, not a model.
var diagnosisMap = map[string]map[string]interface{}{
	"yellow_leaves": {
		"likely_cause": "Nitrogen deficiency or overwatering",
		"action":       "Check soil drainage, consider urea application after soil test",
	},
	"brown_spots": {
		"likely_cause": "Fungal infection (possibly leaf blight)",
		"action":       "Apply copper-based fungicide, improve air circulation",
	},
	"wilting": {
		"likely_cause": "Water stress or root rot",
		"action":       "Check irrigation, inspect roots for damage",
	},
	"insects": {
		"likely_cause": "Pest infestation",
		"action":       "Identify pest type, consider neem-based treatment first",
	},
}

func (t *DiagnoseCropIssue) Execute(_ context.Context, fc farm.Context, params map[string]interface{}) (*Result, error) {
	symptoms := stringSlice(params["symptoms"])

	findings := make([]map[string]interface{}, 0, len(symptoms))
	for _, symptom := range symptoms {
		if finding, ok := diagnosisMap[symptom]; ok {
			findings = append(findings, finding)
		}
	}

	confidence := farm.ConfidenceLow
	if len(findings) > 0 {
		confidence = farm.ConfidenceMedium
	}

	stage := "unknown"
	if fc.CropStage != "" {
		stage = string(fc.CropStage)
	}

	result := &Result{
		Success: true,
		Data: map[string]interface{}{
			"crop":     fc.Crop,
			"stage":    stage,
			"symptoms": symptoms,
			"findings": findings,
		},
		Confidence: confidence,
	}

	safety.AddMandatoryDisclaimer(t.Definition().Name, result)
	return result, nil
}

// stringSlice coerces a JSON-decoded parameter into a string slice.
func stringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	default:
		return nil
	}
}
