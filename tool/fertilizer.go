package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
	"github.com/sweetpotato0/krishigpt/safety"
)

// RecommendFertilizer recommends fertilizer type and dosage. Dosages are
// validated and capped against the safety limits before they reach the
// farmer.
type RecommendFertilizer struct{}

func (t *RecommendFertilizer) Definition() Definition {
	return Definition{
		Name:        "recommend_fertilizer",
		Description: "Recommend fertilizer type and dosage for crop",
		Parameters: []Parameter{
			{Name: "target_nutrient", Type: "string", Description: "N/P/K or specific nutrient", Required: false},
		},
		RequiresContext: []farm.Field{farm.FieldCrop, farm.FieldCropStage, farm.FieldLandSize},
		MinConfidence:   farm.ConfidenceMedium,
		SafetyCritical:  true,
	}
}

func (t *RecommendFertilizer) ClarificationForm() *form.Schema {
	return &form.Schema{
		ID:         "fertilizer_form",
		Title:      "Tell me about your farm",
		TitleHindi: "अपने खेत के बारे में बताएं",
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
					{Value: "sugarcane", Label: "Sugarcane", LabelHindi: "गन्ना"},
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
				},
			},
			{
				Name:       "land_size",
				Type:       form.FieldTypeSlider,
				Label:      "Farm size (acres)",
				LabelHindi: "खेत का आकार (एकड़)",
				MinValue:   0.5,
				MaxValue:   50,
				Step:       0.5,
				Required:   true,
			},
		},
		SubmitAction:     "recommend_fertilizer",
		SubmitLabel:      "Get Recommendation",
		SubmitLabelHindi: "सिफारिश प्राप्त करें",
	}
}

// Base dosages in kg/acre by crop and stage. Unknown combinations fall back
// to a modest urea application.
var fertilizerRecommendations = map[string]map[string]map[string]float64{
	"wheat": {
		"sowing":     {"urea": 25, "dap": 50},
		"vegetative": {"urea": 50},
		"flowering":  {"mop": 25},
	},
	"rice": {
		"sowing":     {"dap": 40},
		"vegetative": {"urea": 40},
		"flowering":  {"mop": 20},
	},
}

var fertilizerFallback = map[string]float64{"urea": 30}

func (t *RecommendFertilizer) Execute(_ context.Context, fc farm.Context, _ map[string]interface{}) (*Result, error) {
	if fc.LandSizeAcres <= 0 {
		return &Result{
			Success:    false,
			Error:      "Land size required for dosage calculation",
			Confidence: farm.ConfidenceLow,
		}, nil
	}

	crop := "wheat"
	if fc.Crop != "" {
		crop = normalize(fc.Crop)
	}
	stage := "vegetative"
	if fc.CropStage != "" {
		stage = string(fc.CropStage)
	}

	baseRec := fertilizerRecommendations[crop][stage]
	if baseRec == nil {
		baseRec = fertilizerFallback
	}

	scaled := make(map[string]interface{}, len(baseRec))
	warnings := []string{}

	for fertilizer, kgPerAcre := range baseRec {
		totalKg := kgPerAcre * fc.LandSizeAcres

		check := safety.ValidateDosage(fertilizer, kgPerAcre)
		if !check.Safe && check.Known {
			totalKg = check.CappedPerAcre * fc.LandSizeAcres
			warnings = append(warnings, check.Warning)
		}

		scaled[fertilizer] = map[string]interface{}{
			"per_acre_kg": kgPerAcre,
			"total_kg":    totalKg,
			"for_acres":   fc.LandSizeAcres,
		}
	}

	result := &Result{
		Success: true,
		Data: map[string]interface{}{
			"crop":            crop,
			"stage":           stage,
			"recommendations": scaled,
			"warnings":        warnings,
		},
		Confidence: farm.ConfidenceMedium,
	}

	safety.AddMandatoryDisclaimer(t.Definition().Name, result)
	return result, nil
}
