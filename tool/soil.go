package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
)

// SoilHealthAnalysis describes a soil type and how to improve it.
type SoilHealthAnalysis struct{}

func (t *SoilHealthAnalysis) Definition() Definition {
	return Definition{
		Name:        "soil_health_analysis",
		Description: "Analyze soil health based on type and provide improvement recommendations",
		Parameters: []Parameter{
			{Name: "ph_level", Type: "number", Description: "Soil pH if known", Required: false},
			{Name: "organic_matter", Type: "string", Description: "low/medium/high", Required: false},
		},
		RequiresContext: []farm.Field{farm.FieldSoilType},
		MinConfidence:   farm.ConfidenceMedium,
		SafetyCritical:  false,
	}
}

func (t *SoilHealthAnalysis) ClarificationForm() *form.Schema {
	return &form.Schema{
		ID:         "soil_health_form",
		Title:      "Tell me about your soil",
		TitleHindi: "अपनी मिट्टी के बारे में बताएं",
		Fields: []form.Field{
			{
				Name:       "soil_type",
				Type:       form.FieldTypeRadio,
				Label:      "Soil type",
				LabelHindi: "मिट्टी का प्रकार",
				Required:   true,
				Options: []form.Option{
					{Value: "alluvial", Label: "Alluvial", LabelHindi: "जलोढ़"},
					{Value: "black", Label: "Black/Cotton", LabelHindi: "काली"},
					{Value: "red", Label: "Red", LabelHindi: "लाल"},
					{Value: "sandy", Label: "Sandy", LabelHindi: "रेतीली"},
					{Value: "clay", Label: "Clay", LabelHindi: "चिकनी"},
					{Value: "loamy", Label: "Loamy", LabelHindi: "दोमट"},
				},
			},
			{
				Name:       "soil_test",
				Type:       form.FieldTypeRadio,
				Label:      "Have you done a soil test?",
				LabelHindi: "क्या मिट्टी परीक्षण कराया है?",
				Required:   false,
				Options: []form.Option{
					{Value: "yes", Label: "Yes"},
					{Value: "no", Label: "No"},
				},
			},
		},
		SubmitAction: "soil_health_analysis",
	}
}

type soilProfile struct {
	characteristics string
	suitableCrops   []string
	improvements    []string
	phRange         string
}

var soilProfiles = map[string]soilProfile{
	"alluvial": {
		characteristics: "Fertile, good water retention, rich in potash",
		suitableCrops:   []string{"wheat", "rice", "sugarcane", "vegetables"},
		improvements: []string{
			"Add organic matter to maintain fertility",
			"Practice crop rotation",
			"Avoid waterlogging",
		},
		phRange: "6.5-7.5",
	},
	"black": {
		characteristics: "High clay content, good moisture retention, cracks when dry",
		suitableCrops:   []string{"cotton", "soybean", "wheat", "jowar"},
		improvements: []string{
			"Add gypsum to improve drainage",
			"Deep ploughing before monsoon",
			"Add organic matter to prevent cracking",
		},
		phRange: "7.0-8.5",
	},
	"red": {
		characteristics: "Low fertility, good drainage, iron-rich",
		suitableCrops:   []string{"groundnut", "millets", "pulses", "tobacco"},
		improvements: []string{
			"Add lime if too acidic",
			"Regular organic matter addition",
			"Use phosphatic fertilizers",
		},
		phRange: "5.5-6.5",
	},
	"sandy": {
		characteristics: "Low water retention, good drainage, low fertility",
		suitableCrops:   []string{"groundnut", "watermelon", "carrots", "potatoes"},
		improvements: []string{
			"Add organic matter to improve retention",
			"Frequent but light irrigation",
			"Mulching to reduce evaporation",
		},
		phRange: "6.0-7.0",
	},
	"clay": {
		characteristics: "High water retention, poor drainage, sticky when wet",
		suitableCrops:   []string{"rice", "wheat", "cotton"},
		improvements: []string{
			"Add sand and organic matter",
			"Improve drainage",
			"Avoid working when too wet",
		},
		phRange: "6.5-7.5",
	},
	"loamy": {
		characteristics: "Ideal mix, good drainage and retention, fertile",
		suitableCrops:   []string{"most crops", "vegetables", "fruits"},
		improvements: []string{
			"Maintain organic matter levels",
			"Regular soil testing",
			"Balanced fertilization",
		},
		phRange: "6.0-7.0",
	},
}

func (t *SoilHealthAnalysis) Execute(_ context.Context, fc farm.Context, _ map[string]interface{}) (*Result, error) {
	soilType := "unknown"
	if fc.SoilType != "" {
		soilType = string(fc.SoilType)
	}

	profile, known := soilProfiles[soilType]
	if !known {
		profile = soilProfile{
			characteristics: "Unknown soil type",
			suitableCrops:   []string{},
			improvements:    []string{"Get soil tested at local agricultural office"},
			phRange:         "Unknown",
		}
	}

	confidence := farm.ConfidenceLow
	if known {
		confidence = farm.ConfidenceMedium
	}

	return &Result{
		Success: true,
		Data: map[string]interface{}{
			"soil_type":       soilType,
			"characteristics": profile.characteristics,
			"suitable_crops":  profile.suitableCrops,
			"improvements":    profile.improvements,
			"ideal_ph_range":  profile.phRange,
			"recommendation":  "Get a soil test done for accurate nutrient analysis",
		},
		Confidence: confidence,
	}, nil
}
