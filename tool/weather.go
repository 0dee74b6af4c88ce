package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
)

// WeatherBasedAdvice gives do/avoid lists for a weather event.
type WeatherBasedAdvice struct{}

func (t *WeatherBasedAdvice) Definition() Definition {
	return Definition{
		Name:        "weather_based_advice",
		Description: "Provide advice based on weather conditions",
		Parameters: []Parameter{
			{Name: "weather_event", Type: "string", Description: "rain/heat/cold/storm", Required: false},
		},
		RequiresContext: []farm.Field{farm.FieldCrop},
		MinConfidence:   farm.ConfidenceMedium,
		SafetyCritical:  false,
	}
}

func (t *WeatherBasedAdvice) ClarificationForm() *form.Schema { return nil }

type weatherAdvice struct {
	do   []string
	dont []string
}

var weatherAdviceMap = map[string]weatherAdvice{
	"rain": {
		do:   []string{"Ensure drainage channels are clear", "Delay fertilizer application", "Check for waterlogging"},
		dont: []string{"Do not spray pesticides", "Avoid field operations", "Do not irrigate"},
	},
	"heat": {
		do:   []string{"Irrigate in evening", "Apply mulch to retain moisture", "Provide shade for nurseries"},
		dont: []string{"Do not spray during peak heat", "Avoid transplanting", "Do not apply urea in hot conditions"},
	},
	"cold": {
		do:   []string{"Light irrigation before frost", "Cover nurseries", "Smoke/fire for frost protection"},
		dont: []string{"Do not irrigate during frost", "Avoid pruning", "Do not apply nitrogen"},
	},
}

var weatherAdviceFallback = weatherAdvice{
	do:   []string{"Monitor crop regularly", "Follow normal schedule"},
	dont: []string{"Do not ignore weather forecasts"},
}

func (t *WeatherBasedAdvice) Execute(_ context.Context, fc farm.Context, params map[string]interface{}) (*Result, error) {
	weatherEvent := "normal"
	if s, ok := params["weather_event"].(string); ok && s != "" {
		weatherEvent = s
	}
	crop := "general"
	if fc.Crop != "" {
		crop = fc.Crop
	}

	advice, ok := weatherAdviceMap[weatherEvent]
	if !ok {
		advice = weatherAdviceFallback
	}

	return &Result{
		Success: true,
		Data: map[string]interface{}{
			"weather_event": weatherEvent,
			"crop":          crop,
			"do_this":       advice.do,
			"avoid_this":    advice.dont,
		},
		Confidence: farm.ConfidenceMedium,
	}, nil
}
