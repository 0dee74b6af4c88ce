package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
)

// IrrigationSchedule generates an irrigation schedule for the crop and stage.
type IrrigationSchedule struct{}

func (t *IrrigationSchedule) Definition() Definition {
	return Definition{
		Name:        "irrigation_schedule",
		Description: "Generate irrigation schedule for crop",
		Parameters: []Parameter{
			{Name: "irrigation_type", Type: "string", Description: "drip/flood/sprinkler", Required: false},
		},
		RequiresContext: []farm.Field{farm.FieldCrop, farm.FieldCropStage},
		MinConfidence:   farm.ConfidenceMedium,
		SafetyCritical:  false,
	}
}

func (t *IrrigationSchedule) ClarificationForm() *form.Schema {
	return &form.Schema{
		ID:         "irrigation_form",
		Title:      "Irrigation Details",
		TitleHindi: "सिंचाई विवरण",
		Fields: []form.Field{
			{
				Name:     "crop",
				Type:     form.FieldTypeSelect,
				Label:    "Which crop?",
				Required: true,
				Options: []form.Option{
					{Value: "wheat", Label: "Wheat"},
					{Value: "rice", Label: "Rice"},
					{Value: "cotton", Label: "Cotton"},
					{Value: "vegetables", Label: "Vegetables"},
				},
			},
			{
				Name:       "irrigation_type",
				Type:       form.FieldTypeRadio,
				Label:      "Irrigation method",
				LabelHindi: "सिंचाई विधि",
				Required:   true,
				Options: []form.Option{
					{Value: "flood", Label: "Flood/Surface", LabelHindi: "बाढ़/सतह"},
					{Value: "drip", Label: "Drip", LabelHindi: "टपक"},
					{Value: "sprinkler", Label: "Sprinkler", LabelHindi: "फव्वारा"},
				},
			},
		},
		SubmitAction: "irrigation_schedule",
	}
}

type irrigationEntry struct {
	intervalDays int
	critical     string
}

// Interval tables by crop and stage. Not weather-adjusted.
var irrigationSchedules = map[string]map[string]irrigationEntry{
	"wheat": {
		"sowing":     {21, "Crown root initiation"},
		"vegetative": {21, "Tillering stage"},
		"flowering":  {10, "Flowering - most critical"},
	},
	"rice": {
		"sowing":     {3, "Keep flooded"},
		"vegetative": {5, "Maintain 5cm water"},
		"flowering":  {3, "Critical for grain filling"},
	},
}

var irrigationFallback = irrigationEntry{7, "Monitor soil moisture"}

func (t *IrrigationSchedule) Execute(_ context.Context, fc farm.Context, params map[string]interface{}) (*Result, error) {
	crop := "wheat"
	if fc.Crop != "" {
		crop = normalize(fc.Crop)
	}
	stage := "vegetative"
	if fc.CropStage != "" {
		stage = string(fc.CropStage)
	}
	irrigationType := "flood"
	if s, ok := params["irrigation_type"].(string); ok && s != "" {
		irrigationType = s
	}

	schedule, ok := irrigationSchedules[crop][stage]
	if !ok {
		schedule = irrigationFallback
	}

	return &Result{
		Success: true,
		Data: map[string]interface{}{
			"crop":            crop,
			"stage":           stage,
			"irrigation_type": irrigationType,
			"interval_days":   schedule.intervalDays,
			"critical_note":   schedule.critical,
			"tips": []string{
				"Irrigate in morning or evening, not midday",
				"Check soil moisture before irrigating",
				"Avoid waterlogging",
			},
		},
		Confidence: farm.ConfidenceMedium,
	}, nil
}
